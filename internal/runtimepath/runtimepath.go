package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the runtime directory used for the IPC socket. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/vdeskwm-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/vdeskwm-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the IPC socket path for the display named by $DISPLAY.
func SocketPath() (string, error) {
	return SocketPathFor(os.Getenv("DISPLAY"))
}

// SocketPathFor returns the IPC socket path of the manager running on
// display, so managers on different displays do not collide.
func SocketPathFor(display string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "vdeskwm"+displaySuffix(display)+".sock"), nil
}

// displaySuffix maps ":0" to "-0" and "host:1.0" to "-host-1.0". An empty
// display gives no suffix.
func displaySuffix(display string) string {
	display = strings.TrimSpace(display)
	if display == "" {
		return ""
	}
	var b strings.Builder
	b.WriteByte('-')
	for _, r := range strings.TrimPrefix(display, ":") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
