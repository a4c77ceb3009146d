// Package daemon runs the window manager core on a single goroutine and
// exposes it to the IPC server and the reconciler.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/gateway/internal/config"
	"github.com/1broseidon/gateway/internal/hotkeys"
	"github.com/1broseidon/gateway/internal/ipc"
	"github.com/1broseidon/gateway/internal/trace"
	"github.com/1broseidon/gateway/internal/wm"
)

// ErrStopped is returned by calls made after the loop has exited.
var ErrStopped = errors.New("window manager loop stopped")

// ConfigLoader produces a freshly loaded config for a reload.
type ConfigLoader func() (*config.Config, error)

// LoopConfig holds the loop's collaborators.
type LoopConfig struct {
	// RefreshInterval is the frame period. Each tick refreshes every output.
	RefreshInterval time.Duration
	Logger          *slog.Logger
	Tracer          *trace.Provider
	// LoadConfig is used by Reload. Nil disables reloads.
	LoadConfig ConfigLoader
	// OnConfig runs on the loop goroutine after a reload was applied.
	OnConfig func(*config.Config)
}

// Loop serializes every access to a wm.Server: host events, posted
// closures and the refresh ticker all run on the goroutine inside Run.
type Loop struct {
	srv      *wm.Server
	events   <-chan wm.Event
	tasks    chan func()
	interval time.Duration
	logger   *slog.Logger
	tracer   *trace.Provider
	load     ConfigLoader
	onConfig func(*config.Config)
	stopped  chan struct{}
}

var _ ipc.Controller = (*Loop)(nil)

// NewLoop creates a loop over srv fed by events.
func NewLoop(cfg LoopConfig, srv *wm.Server, events <-chan wm.Event) *Loop {
	interval := cfg.RefreshInterval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Loop{
		srv:      srv,
		events:   events,
		tasks:    make(chan func()),
		interval: interval,
		logger:   logger,
		tracer:   cfg.Tracer,
		load:     cfg.LoadConfig,
		onConfig: cfg.OnConfig,
		stopped:  make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled, the event channel closes or
// the quit command runs.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.stopped)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.logger.Info("event loop started", "refresh", l.interval)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("event loop stopped", "reason", ctx.Err())
			return
		case <-l.srv.Done():
			l.logger.Info("event loop stopped", "reason", "quit")
			return
		case ev, ok := <-l.events:
			if !ok {
				l.logger.Info("event loop stopped", "reason", "host closed")
				return
			}
			l.handle(ctx, ev)
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			for _, id := range l.srv.OutputIDs() {
				l.srv.Handle(wm.OutputRefresh{Output: id})
			}
		}
	}
}

// Stopped is closed when Run returns.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}

func (l *Loop) handle(ctx context.Context, ev wm.Event) {
	switch e := ev.(type) {
	case wm.PointerMoved, wm.OutputRefresh, wm.SurfaceCommitted:
		l.srv.Handle(ev)
		return
	case wm.OutputAdded:
		_, span := l.tracer.Start(ctx, "output_added", "output", e.Name)
		defer span.End()
	case wm.OutputRemoved:
		_, span := l.tracer.Start(ctx, "output_removed", "output", fmt.Sprint(e.Output))
		defer span.End()
	default:
		_, span := l.tracer.Start(ctx, "event", "event", wm.EventName(ev))
		defer span.End()
	}
	l.srv.Handle(ev)
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(fn func(srv *wm.Server)) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn(l.srv)
	}

	select {
	case l.tasks <- task:
	case <-l.stopped:
		return ErrStopped
	}
	<-done
	return nil
}

// Inject feeds a synthetic event into the loop.
func (l *Loop) Inject(ev wm.Event) error {
	return l.Do(func(srv *wm.Server) {
		srv.Handle(ev)
	})
}

// Snapshot copies the server state.
func (l *Loop) Snapshot() (wm.Snapshot, error) {
	var snap wm.Snapshot
	err := l.Do(func(srv *wm.Server) {
		snap = srv.Snapshot()
	})
	return snap, err
}

// RunCommand executes cmd as if its binding had fired.
func (l *Loop) RunCommand(cmd hotkeys.Command) (bool, error) {
	_, span := l.tracer.Start(context.Background(), "command", "command", cmd.String())
	defer span.End()

	var handled bool
	err := l.Do(func(srv *wm.Server) {
		handled = srv.Execute(cmd)
	})
	return handled, err
}

// FocusView focuses a view by id.
func (l *Loop) FocusView(id wm.ViewID) error {
	var focusErr error
	if err := l.Do(func(srv *wm.Server) {
		focusErr = srv.FocusView(id)
	}); err != nil {
		return err
	}
	return focusErr
}

// Reload loads the config again and applies it.
func (l *Loop) Reload() error {
	if l.load == nil {
		return fmt.Errorf("reload is not configured")
	}
	cfg, err := l.load()
	if err != nil {
		return err
	}
	return l.Apply(cfg)
}

// Apply swaps in cfg on the loop goroutine.
func (l *Loop) Apply(cfg *config.Config) error {
	var applyErr error
	if err := l.Do(func(srv *wm.Server) {
		if applyErr = srv.UpdateConfig(cfg); applyErr != nil {
			return
		}
		if l.onConfig != nil {
			l.onConfig(cfg)
		}
	}); err != nil {
		return err
	}
	if applyErr == nil {
		l.logger.Info("config applied", "log_level", cfg.LogLevel)
	}
	return applyErr
}
