package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/gateway/internal/trace"
	"github.com/1broseidon/gateway/internal/wm"
)

// SurfaceLister returns the client surfaces the host currently knows about.
type SurfaceLister func() ([]wm.SurfaceID, error)

// Target is the registry side of a reconciliation pass.
type Target interface {
	Snapshot() (wm.Snapshot, error)
	Inject(ev wm.Event) error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
	Tracer   *trace.Provider
}

// Reconciler periodically checks for surfaces that vanished without a
// destroy notification and removes them from the registry.
type Reconciler struct {
	interval     time.Duration
	target       Target
	listSurfaces SurfaceLister
	logger       *slog.Logger
	tracer       *trace.Provider
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, target Target, listSurfaces SurfaceLister) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval:     interval,
		target:       target,
		listSurfaces: listSurfaces,
		logger:       logger,
		tracer:       cfg.Tracer,
	}
}

// SurfaceListerFromHost adapts a host's LiveSurfaces.
func SurfaceListerFromHost(host wm.Host) SurfaceLister {
	return host.LiveSurfaces
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// reconcile performs a single reconciliation pass and returns the number of
// stale surfaces removed.
func (r *Reconciler) reconcile(ctx context.Context) (removed int) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	_, span := r.tracer.Start(ctx, "reconcile")
	defer span.End()

	snap, err := r.target.Snapshot()
	if err != nil {
		r.logger.Error("reconciler: failed to read registry", "error", err)
		return 0
	}
	if len(snap.Views) == 0 && len(snap.Layers) == 0 {
		return 0
	}

	live, err := r.listSurfaces()
	if err != nil {
		r.logger.Error("reconciler: failed to list surfaces", "error", err)
		return 0
	}

	actual := make(map[wm.SurfaceID]bool, len(live))
	for _, s := range live {
		actual[s] = true
	}

	for _, v := range snap.Views {
		if actual[v.Surface] {
			continue
		}
		r.logger.Info("reconciler: stale view detected",
			"view", v.ID,
			"surface", v.Surface,
			"location", v.Location)
		if err := r.target.Inject(wm.SurfaceDestroyed{Surface: v.Surface}); err != nil {
			r.logger.Warn("reconciler: failed to remove view", "view", v.ID, "error", err)
			return removed
		}
		removed++
	}

	for _, l := range snap.Layers {
		if actual[l.Surface] {
			continue
		}
		r.logger.Info("reconciler: stale layer surface detected",
			"surface", l.Surface,
			"layer", l.Layer)
		if err := r.target.Inject(wm.LayerDestroyed{Surface: l.Surface}); err != nil {
			r.logger.Warn("reconciler: failed to remove layer surface", "surface", l.Surface, "error", err)
			return removed
		}
		removed++
	}

	return removed
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() int {
	return r.reconcile(context.Background())
}
