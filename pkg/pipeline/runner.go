package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scenemend/scenemend/pkg/cache"
	"github.com/scenemend/scenemend/pkg/observability"
	"github.com/scenemend/scenemend/pkg/rewrite"
)

// Runner encapsulates repair execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store repair results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedRepair is the cache wire format for a repair result.
type cachedRepair struct {
	Output string `json:"output"`
	Status string `json:"status"`
}

// Execute runs the complete validate → rewrite → cache pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	inputHash := cache.Hash([]byte(opts.Source))
	cacheKey := r.Keyer.RepairKey(inputHash, cache.RepairKeyOpts{Version: rewrite.Version})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached cachedRepair
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "repair")
				result := &Result{
					Output:    cached.Output,
					Status:    statusFromString(cached.Status),
					InputHash: inputHash,
					CacheInfo: CacheInfo{RepairHit: true},
				}
				result.Stats.LineCount = lineCount(cached.Output)
				opts.Logger.Debug("repair served from cache", "hash", inputHash[:12])
				return result, nil
			}
			// Undecodable entry - treat as miss and overwrite below
		}
		observability.Cache().OnCacheMiss(ctx, "repair")
	}

	// Run the rewrite stages
	start := time.Now()
	observability.Pipeline().OnRepairStart(ctx, len(opts.Source))

	buf := rewrite.NewBuffer(opts.Source)
	stats := Stats{}
	for _, stage := range rewrite.Stages() {
		observability.Pipeline().OnStageStart(ctx, stage.Name)
		stageStart := time.Now()
		buf = stage.Rewrite(buf)
		elapsed := time.Since(stageStart)
		observability.Pipeline().OnStageComplete(ctx, stage.Name, elapsed)
		stats.StageTimes = append(stats.StageTimes, StageTime{Name: stage.Name, Duration: elapsed})
	}

	buf, status := rewrite.Validate(buf)
	output := buf.String()

	stats.TotalTime = time.Since(start)
	stats.LineCount = buf.Len()
	observability.Pipeline().OnRepairComplete(ctx, status.String(), stats.TotalTime, nil)

	// Cache the result
	if data, err := json.Marshal(cachedRepair{Output: output, Status: status.String()}); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLRepair); err == nil {
			observability.Cache().OnCacheSet(ctx, "repair", len(data))
		}
	}

	opts.Logger.Info("repaired source",
		"status", status,
		"lines", stats.LineCount,
		"duration", stats.TotalTime)

	return &Result{
		Output:    output,
		Status:    status,
		InputHash: inputHash,
		Stats:     stats,
	}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// statusFromString maps a cached status string back to a rewrite.Status.
func statusFromString(s string) rewrite.Status {
	switch s {
	case rewrite.StatusRepaired.String():
		return rewrite.StatusRepaired
	case rewrite.StatusPassedThrough.String():
		return rewrite.StatusPassedThrough
	default:
		return rewrite.StatusValid
	}
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
