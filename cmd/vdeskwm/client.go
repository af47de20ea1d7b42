package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/1broseidon/vdeskwm/internal/ipc"
	"golang.org/x/term"
)

// wantJSON reports whether output should be machine readable: either asked
// for, or stdout is not a terminal.
func wantJSON(flagged bool) bool {
	return flagged || !term.IsTerminal(int(os.Stdout.Fd()))
}

func writeJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdeskwm status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show window manager status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.Status()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if wantJSON(*asJSON) {
		return writeJSON(os.Stdout, status)
	}
	fmt.Printf("vdesk:          %d/%d\n", status.Vdesk, status.Vdesks)
	fmt.Printf("clients:        %d\n", status.Clients)
	fmt.Printf("current:        %s\n", formatWindow(status.Current))
	fmt.Printf("docks_visible:  %v\n", status.DocksVisible)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runClients(args []string) int {
	fs := flag.NewFlagSet("clients", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdeskwm clients [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List managed windows in cycle order.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "clients takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	clients, err := client.Clients()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if wantJSON(*asJSON) {
		if clients == nil {
			clients = []ipc.ClientInfo{}
		}
		return writeJSON(os.Stdout, clients)
	}
	printClients(os.Stdout, clients)
	return 0
}

func printClients(w io.Writer, clients []ipc.ClientInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WINDOW\tFRAME\tGEOMETRY\tVDESK\tSTATE\tFLAGS")
	for _, c := range clients {
		fmt.Fprintf(tw, "%s\t%s\t%dx%d%+d%+d\t%s\t%s\t%s\n",
			formatWindow(c.Window), formatWindow(c.Frame),
			c.Width, c.Height, c.X, c.Y,
			c.Vdesk, c.State, clientFlags(c))
	}
	tw.Flush()
}

func clientFlags(c ipc.ClientInfo) string {
	flags := ""
	if c.Current {
		flags += "*"
	}
	if c.Dock {
		flags += "d"
	}
	if c.Fixed {
		flags += "f"
	}
	if flags == "" {
		return "-"
	}
	return flags
}

func formatWindow(w uint32) string {
	if w == 0 {
		return "none"
	}
	return fmt.Sprintf("0x%x", w)
}

func parseWindow(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(v), nil
}

// parseVdeskArg accepts a vdesk index or "fixed".
func parseVdeskArg(s string) (vdesk int, fixed bool, err error) {
	if s == "fixed" {
		return 0, true, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false, fmt.Errorf("invalid vdesk %q", s)
	}
	return v, false, nil
}

func runVdesk(args []string) int {
	fs := flag.NewFlagSet("vdesk", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdeskwm vdesk <n>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Switch to virtual desktop n (counting from 0).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	v, fixed, err := parseVdeskArg(fs.Arg(0))
	if err != nil || fixed {
		fmt.Fprintf(os.Stderr, "invalid vdesk %q\n", fs.Arg(0))
		return 2
	}

	if err := ipc.NewClient().SwitchVdesk(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMove(args []string) int {
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdeskwm move <window> <n|fixed>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Move a window to vdesk n, or make it visible on every vdesk.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	win, err := parseWindow(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	v, fixed, err := parseVdeskArg(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := ipc.NewClient().Move(win, v, fixed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runClose(args []string) int {
	fs := flag.NewFlagSet("close", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	force := fs.Bool("force", false, "Kill the client instead of asking it to close")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdeskwm close [--force] <window>")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	win, err := parseWindow(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := ipc.NewClient().Close(win, *force); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSimple(name, summary string, args []string, call func(*ipc.Client) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vdeskwm %s\n\n%s\n", name, summary)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}

	if err := call(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
