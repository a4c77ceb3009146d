package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/gateway/internal/config"
	"github.com/1broseidon/gateway/internal/daemon"
	"github.com/1broseidon/gateway/internal/ipc"
	"github.com/1broseidon/gateway/internal/platform"
	"github.com/1broseidon/gateway/internal/trace"
	"github.com/1broseidon/gateway/internal/tui"
	"github.com/1broseidon/gateway/internal/wm"
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
	case "views":
		os.Exit(runViews(os.Args[2:]))
	case "outputs":
		os.Exit(runOutputs(os.Args[2:]))
	case "stacks":
		os.Exit(runStacks(os.Args[2:]))
	case "cmd":
		os.Exit(runCmd(os.Args[2:]))
	case "focus":
		os.Exit(runFocus(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui", "sim":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: gateway <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the window manager (foreground)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  status              Show window manager status")
	fmt.Fprintln(w, "  views               List views")
	fmt.Fprintln(w, "  outputs             List outputs")
	fmt.Fprintln(w, "  stacks              List tiling stacks")
	fmt.Fprintln(w, "  cmd <name>          Run a binding command")
	fmt.Fprintln(w, "  focus <id>          Focus a view")
	fmt.Fprintln(w, "  reload              Reload configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config init         Write a starter configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open the tiling simulator and settings editor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'gateway <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.Config, error) {
	var res *config.LoadResult
	var err error
	if path == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(path)
	}
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	startup := fs.String("s", "", "Command to run with /bin/sh -c once the window manager is up")
	path := fs.String("config", "", "Config file path (default: ~/.config/gateway/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: gateway run [-s CMD] [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Take over the X display and tile windows until quit.")
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

	runDaemon(*path, *startup)
	return 0
}

func runDaemon(configPath, startup string) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (terminal: %s, stacks: %d, gaps: %dpx)", cfg.Terminal, len(cfg.Stacks), cfg.WindowGaps)

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracer, err := trace.Setup(ctx)
	if err != nil {
		log.Printf("Warning: tracing disabled: %v", err)
		tracer = &trace.Provider{}
	}
	defer tracer.Shutdown(context.Background())

	backend, err := platform.NewLinuxBackend(logger)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	srv, err := wm.NewServer(cfg, backend, logger)
	if err != nil {
		log.Fatalf("Failed to create window manager: %v", err)
	}

	bindings, err := cfg.HotkeyBindings()
	if err != nil {
		log.Fatalf("Invalid bindings: %v", err)
	}
	if err := backend.GrabKeys(bindings); err != nil {
		log.Fatalf("Failed to grab keys: %v", err)
	}

	loop := daemon.NewLoop(daemon.LoopConfig{
		RefreshInterval: cfg.RefreshInterval,
		Logger:          logger,
		Tracer:          tracer,
		LoadConfig: func() (*config.Config, error) {
			return loadConfig(configPath)
		},
		OnConfig: func(newCfg *config.Config) {
			level.Set(newCfg.SlogLevel())
			b, err := newCfg.HotkeyBindings()
			if err != nil {
				logger.Error("rebuild bindings", "err", err)
				return
			}
			if err := backend.GrabKeys(b); err != nil {
				logger.Error("grab keys", "err", err)
			}
		},
	}, srv, backend.Events())
	go loop.Run(ctx)

	if err := backend.Start(); err != nil {
		log.Fatalf("Failed to start display backend: %v", err)
	}

	if err := platform.ExportEnvironment(cfg.Environment); err != nil {
		log.Printf("Warning: %v", err)
	}
	if err := platform.ApplyKeymap(cfg.Keyboard.Layout, cfg.Keyboard.Variant); err != nil {
		log.Fatalf("Failed to set keymap: %v", err)
	}
	if startup != "" {
		if err := platform.SpawnShell(startup); err != nil {
			log.Printf("Warning: startup command: %v", err)
		}
	}
	if ran, err := platform.RunStartupScript(cfg.StartupScriptPath()); err != nil {
		log.Printf("Warning: startup script: %v", err)
	} else if ran {
		log.Printf("Started %s", cfg.StartupScriptPath())
	}

	ipcServer, err := ipc.NewServer(loop)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: cfg.ReconcileInterval,
		Logger:   logger,
		Tracer:   tracer,
	}, loop, daemon.SurfaceListerFromHost(backend))
	go reconciler.Run(ctx)

	watchPath := configPath
	if watchPath == "" {
		watchPath, _ = config.DefaultConfigPath()
	}
	if watchPath != "" {
		go func() {
			err := config.Watch(ctx, watchPath, logger, func() {
				if err := loop.Reload(); err != nil {
					log.Printf("Config reload failed: %v", err)
				}
			})
			if err != nil && ctx.Err() == nil {
				log.Printf("Warning: config watcher stopped: %v", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for {
			select {
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					log.Println("Received SIGHUP, reloading config...")
					if err := loop.Reload(); err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					log.Println("Config reloaded successfully")
					continue
				}
				log.Println("Shutting down gateway...")
				backend.Stop()
				return
			case <-loop.Stopped():
				// quit binding or IPC command
				backend.Stop()
				return
			}
		}
	}()

	log.Println("Entering event loop...")
	backend.Run()

	cancel()
	<-loop.Stopped()
	log.Println("gateway stopped")
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/gateway/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: gateway tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive tiling simulator with settings and binding editors.")
		fmt.Fprintln(os.Stderr, "Works offline; saving reloads the running window manager when present.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab, 1-3  Switch tabs")
		fmt.Fprintln(os.Stderr, "  n, x      Open or close a simulated window")
		fmt.Fprintln(os.Stderr, "  j/k, J/K  Focus or swap next/previous")
		fmt.Fprintln(os.Stderr, "  o/O       Add or remove a simulated output")
		fmt.Fprintln(os.Stderr, "  ?         Toggle full help")
		fmt.Fprintln(os.Stderr, "  Ctrl+S    Review and save config")
		fmt.Fprintln(os.Stderr, "  q         Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
