package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/1broseidon/vdeskwm/internal/config"
	"github.com/1broseidon/vdeskwm/internal/daemon"
	"github.com/1broseidon/vdeskwm/internal/ipc"
	"github.com/1broseidon/vdeskwm/internal/runtimepath"
	"github.com/1broseidon/vdeskwm/internal/x11"
	"github.com/thejerf/suture/v4"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runWM(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "clients":
		os.Exit(runClients(os.Args[2:]))
	case "vdesk":
		os.Exit(runVdesk(os.Args[2:]))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "close":
		os.Exit(runClose(os.Args[2:]))
	case "reload":
		os.Exit(runSimple("reload", "Re-read the configuration file.", os.Args[2:], (*ipc.Client).Reload))
	case "quit":
		os.Exit(runSimple("quit", "Release every window and stop the window manager.", os.Args[2:], (*ipc.Client).Quit))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vdeskwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the window manager (foreground)")
	fmt.Fprintln(w, "  status              Show window manager status")
	fmt.Fprintln(w, "  clients             List managed windows")
	fmt.Fprintln(w, "  vdesk <n>           Switch to virtual desktop n")
	fmt.Fprintln(w, "  move <win> <n>      Move a window to vdesk n, or 'fixed'")
	fmt.Fprintln(w, "  close <win>         Close a window")
	fmt.Fprintln(w, "  reload              Reload configuration")
	fmt.Fprintln(w, "  quit                Stop the window manager")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'vdeskwm <command> --help' for command-specific options.")
}

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/vdeskwm/config.yaml)")
	display := fs.String("display", "", "X display (default: display key, then $DISPLAY)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdeskwm run [--config PATH] [--display DISPLAY]")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	path := *configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	log.Printf("Configuration loaded (vdesks: %d, border: %dpx, files: %d)", cfg.Vdesks, cfg.BorderWidth, len(res.Files))

	level := new(slog.LevelVar)
	level.Set(daemon.ParseLevel(cfg.LogLevel))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	dpy := *display
	if dpy == "" {
		dpy = cfg.Display
	}
	conn, err := x11.NewConnection(dpy, logger)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer conn.Close()

	wm, err := daemon.New(conn, cfg, daemon.Options{ConfigPath: path, Logger: logger, Level: level})
	if err != nil {
		log.Fatalf("Failed to start window manager: %v", err)
	}

	socketPath, err := socketPathFor(dpy)
	if err != nil {
		log.Fatalf("Failed to resolve IPC socket: %v", err)
	}

	reload := func(reason string) {
		ctx, cancel := context.WithTimeout(context.Background(), ipc.DefaultCommandTimeout)
		defer cancel()
		if err := wm.ReloadFromDisk(ctx); err != nil {
			log.Printf("Config reload (%s) failed: %v", reason, err)
			return
		}
		log.Printf("Config reloaded (%s)", reason)
	}

	sup := suture.New("vdeskwm", suture.Spec{
		EventHook: func(e suture.Event) {
			log.Printf("supervisor: %s", e)
		},
	})
	sup.Add(ipc.NewServer(socketPath, wm))
	sup.Add(daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: 10 * time.Second,
		Logger:   logger,
	}, wm))
	if _, err := os.Stat(filepath.Dir(path)); err == nil {
		sup.Add(&config.Watcher{
			Path:     path,
			OnChange: func() { reload("file changed") },
			Logger:   logger,
		})
	} else {
		log.Printf("Not watching %s: %v", path, err)
	}

	supCtx, supCancel := context.WithCancel(context.Background())
	supDone := sup.ServeBackground(supCtx)

	// Setup signal handlers
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	go func() {
		for range hupCh {
			log.Println("Received SIGHUP, reloading config...")
			reload("SIGHUP")
		}
	}()

	log.Println("Entering event loop...")
	runErr := wm.Run(ctx)
	signal.Stop(hupCh)

	supCancel()
	if err := <-supDone; err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Supervisor stopped: %v", err)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Printf("Window manager stopped: %v", runErr)
		return 1
	}
	log.Println("vdeskwm stopped")
	return 0
}

func socketPathFor(display string) (string, error) {
	if display == "" {
		return runtimepath.SocketPath()
	}
	return runtimepath.SocketPathFor(display)
}
