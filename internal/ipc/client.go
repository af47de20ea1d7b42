package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/vdeskwm/internal/runtimepath"
)

// Client handles IPC communication with the running window manager
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the manager on $DISPLAY.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientFor(socketPath)
}

// NewClientFor creates a client talking to an explicit socket path.
func NewClientFor(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    DefaultCommandTimeout + time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to window manager: %w (is vdeskwm running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == StatusError {
		return nil, fmt.Errorf("window manager error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) send(cmd CommandType, payload any) (*Response, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return c.sendRequest(req)
}

// Status retrieves manager status
func (c *Client) Status() (*StatusData, error) {
	resp, err := c.send(CommandStatus, nil)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Clients lists managed clients.
func (c *Client) Clients() ([]ClientInfo, error) {
	resp, err := c.send(CommandClients, nil)
	if err != nil {
		return nil, err
	}

	var data ClientsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse clients data: %w", err)
	}
	return data.Clients, nil
}

// SwitchVdesk changes the visible vdesk.
func (c *Client) SwitchVdesk(vdesk int) error {
	_, err := c.send(CommandVdesk, VdeskPayload{Vdesk: vdesk})
	return err
}

// Move sends a client to vdesk, or makes it fixed.
func (c *Client) Move(window uint32, vdesk int, fixed bool) error {
	_, err := c.send(CommandMove, MovePayload{Window: window, Vdesk: vdesk, Fixed: fixed})
	return err
}

// Close asks a client to close, or kills it when force is set.
func (c *Client) Close(window uint32, force bool) error {
	_, err := c.send(CommandClose, ClosePayload{Window: window, Force: force})
	return err
}

// Reload sends a RELOAD command to the manager
func (c *Client) Reload() error {
	_, err := c.send(CommandReload, nil)
	return err
}

// Quit asks the manager to release every client and exit.
func (c *Client) Quit() error {
	_, err := c.send(CommandQuit, nil)
	return err
}

// Ping checks if the manager is responding
func (c *Client) Ping() error {
	_, err := c.Status()
	return err
}
