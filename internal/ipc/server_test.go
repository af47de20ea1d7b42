package ipc

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeController struct {
	mu     sync.Mutex
	calls  []string
	status StatusData
	list   []ClientInfo
	err    error
}

func (f *fakeController) record(s string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, s)
	return f.err
}

func (f *fakeController) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeController) Status(ctx context.Context) (StatusData, error) {
	return f.status, f.record("status")
}

func (f *fakeController) Clients(ctx context.Context) ([]ClientInfo, error) {
	return f.list, f.record("clients")
}

func (f *fakeController) SwitchVdesk(ctx context.Context, vdesk int) error {
	return f.record("vdesk")
}

func (f *fakeController) MoveClient(ctx context.Context, window uint32, vdesk int, fixed bool) error {
	if fixed {
		return f.record("move fixed")
	}
	return f.record("move")
}

func (f *fakeController) CloseClient(ctx context.Context, window uint32, force bool) error {
	if force {
		return f.record("kill")
	}
	return f.record("close")
}

func (f *fakeController) Reload(ctx context.Context) error { return f.record("reload") }
func (f *fakeController) Quit(ctx context.Context) error   { return f.record("quit") }

func startServer(t *testing.T, ctrl Controller) (*Server, *Client) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "wm.sock")
	srv := NewServer(socketPath, ctrl)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		srv.Stop()
		srv.Wait()
	})
	return srv, NewClientFor(socketPath)
}

func TestServer_StatusAndClients(t *testing.T) {
	ctrl := &fakeController{
		status: StatusData{Vdesk: 2, Vdesks: 8, Clients: 1, Current: 0x400001},
		list:   []ClientInfo{{Window: 0x400001, Frame: 0x600001, Width: 80, Height: 24, Vdesk: "2", State: "normal", Current: true}},
	}
	_, client := startServer(t, ctrl)

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Vdesk != 2 || status.Vdesks != 8 || status.Current != 0x400001 {
		t.Fatalf("Status = %+v", status)
	}

	clients, err := client.Clients()
	if err != nil {
		t.Fatalf("Clients: %v", err)
	}
	if len(clients) != 1 || clients[0] != ctrl.list[0] {
		t.Fatalf("Clients = %+v, want %+v", clients, ctrl.list)
	}
}

func TestServer_Commands(t *testing.T) {
	ctrl := &fakeController{}
	_, client := startServer(t, ctrl)

	steps := []func() error{
		func() error { return client.SwitchVdesk(3) },
		func() error { return client.Move(1, 0, true) },
		func() error { return client.Move(1, 2, false) },
		func() error { return client.Close(1, false) },
		func() error { return client.Close(1, true) },
		client.Reload,
		client.Quit,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	want := []string{"vdesk", "move fixed", "move", "close", "kill", "reload", "quit"}
	if got := ctrl.recorded(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", got, want)
	}
}

func TestServer_ControllerError(t *testing.T) {
	ctrl := &fakeController{err: errors.New("no such client")}
	_, client := startServer(t, ctrl)

	err := client.Close(42, false)
	if err == nil || !strings.Contains(err.Error(), "no such client") {
		t.Fatalf("Close error = %v, want controller error", err)
	}
}

func TestServer_BadRequests(t *testing.T) {
	srv, _ := startServer(t, &fakeController{})

	tests := []struct {
		name string
		line string
		want string
	}{
		{"garbage", "not json\n", "Invalid request"},
		{"unknown", `{"command":"DANCE"}` + "\n", "Unknown command"},
		{"missing payload", `{"command":"VDESK"}` + "\n", "missing payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := net.DialTimeout("unix", srv.socketPath, time.Second)
			if err != nil {
				t.Fatalf("dial: %v", err)
			}
			defer conn.Close()
			conn.SetDeadline(time.Now().Add(2 * time.Second))
			if _, err := conn.Write([]byte(tt.line)); err != nil {
				t.Fatalf("write: %v", err)
			}
			buf := make([]byte, 512)
			n, err := conn.Read(buf)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			got := string(buf[:n])
			if !strings.Contains(got, `"status":"ERROR"`) || !strings.Contains(got, tt.want) {
				t.Fatalf("response = %q, want error containing %q", got, tt.want)
			}
		})
	}
}

func TestServer_ServeRemovesSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "wm.sock")
	srv := NewServer(socketPath, &fakeController{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	client := NewClientFor(socketPath)
	deadline := time.Now().Add(2 * time.Second)
	for client.Ping() != nil {
		if time.Now().After(deadline) {
			t.Fatalf("server never answered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Serve did not return after cancel")
	}
	if _, err := os.Stat(socketPath); !os.IsNotExist(err) {
		t.Fatalf("socket still present after shutdown: %v", err)
	}
}

func TestClient_NoServer(t *testing.T) {
	client := NewClientFor(filepath.Join(t.TempDir(), "absent.sock"))
	if err := client.Ping(); err == nil || !strings.Contains(err.Error(), "is vdeskwm running") {
		t.Fatalf("Ping = %v, want connection error", err)
	}
}
