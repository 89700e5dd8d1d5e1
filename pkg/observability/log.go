package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline and cache events on a logger at debug level.
// Run completion is logged at info.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to log.Default() when
// logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnRunStart(_ context.Context, runID, class string, features int, scale float64) {
	h.Logger.Debug("run started", "run", runID, "class", class, "features", features, "scale", scale)
}

func (h *LogHooks) OnStageComplete(_ context.Context, runID, stage string, in, out int, d time.Duration) {
	h.Logger.Debug("stage complete", "run", runID, "stage", stage, "in", in, "out", out, "duration", d)
}

func (h *LogHooks) OnRunComplete(_ context.Context, runID, class string, s RunSummary, err error) {
	if err != nil {
		h.Logger.Error("run failed", "run", runID, "class", class, "err", err)
		return
	}
	h.Logger.Info("run complete",
		"run", runID,
		"class", class,
		"in", s.FeaturesIn,
		"out", s.FeaturesOut,
		"warnings", s.Warnings,
		"errors", s.ItemErrors,
		"cached", s.CacheHit,
		"duration", s.Duration)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "key", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
