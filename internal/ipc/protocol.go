package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandStatus  CommandType = "STATUS"
	CommandClients CommandType = "CLIENTS"
	CommandVdesk   CommandType = "VDESK"
	CommandMove    CommandType = "MOVE"
	CommandClose   CommandType = "CLOSE"
	CommandReload  CommandType = "RELOAD"
	CommandQuit    CommandType = "QUIT"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by STATUS
type StatusData struct {
	Vdesk         int    `json:"vdesk"`
	Vdesks        int    `json:"vdesks"`
	Clients       int    `json:"clients"`
	Current       uint32 `json:"current,omitempty"`
	DocksVisible  bool   `json:"docks_visible"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ClientInfo describes one managed client.
type ClientInfo struct {
	Window  uint32 `json:"window"`
	Frame   uint32 `json:"frame"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Vdesk   string `json:"vdesk"`
	State   string `json:"state"`
	Dock    bool   `json:"dock,omitempty"`
	Fixed   bool   `json:"fixed,omitempty"`
	Current bool   `json:"current,omitempty"`
}

// ClientsData represents the data returned by CLIENTS
type ClientsData struct {
	Clients []ClientInfo `json:"clients"`
}

type VdeskPayload struct {
	Vdesk int `json:"vdesk"`
}

// MovePayload moves a client to a vdesk, or makes it fixed.
type MovePayload struct {
	Window uint32 `json:"window"`
	Vdesk  int    `json:"vdesk"`
	Fixed  bool   `json:"fixed,omitempty"`
}

type ClosePayload struct {
	Window uint32 `json:"window"`
	Force  bool   `json:"force,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
