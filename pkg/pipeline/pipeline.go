// Package pipeline provides the cached repair pipeline for Scenemend.
//
// This package wraps the pure rewrite stages with the operational concerns
// shared by CLI and API: input validation, content-addressed caching,
// per-stage timing, logging, and observability hooks. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// A repair run proceeds as:
//
//  1. Validate: reject empty, oversized, or non-UTF-8 input
//  2. Cache lookup: keyed by content hash plus rule-set version
//  3. Rewrite: run every stage of the rewrite package, timing each
//  4. Cache store: persist the result for future runs
//
// Repairs are deterministic, so a cache hit is indistinguishable from a
// fresh run apart from timing.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Source: src})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Output)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scenemend/scenemend/pkg/errors"
	"github.com/scenemend/scenemend/pkg/rewrite"
)

// Options contains all configuration for a repair run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source is the raw generated script to repair.
	Source string `json:"source"`

	// Refresh bypasses the cache lookup and overwrites the cached entry.
	Refresh bool `json:"refresh,omitempty"`

	// MaxSourceBytes caps input size. Zero means the package default.
	MaxSourceBytes int `json:"max_source_bytes,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateSource(o.Source, o.MaxSourceBytes); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a repair run.
type Result struct {
	// Output is the repaired source text.
	Output string

	// Status is the syntax verdict for the output.
	Status rewrite.Status

	// InputHash is the content hash of the input source.
	InputHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the run hit the cache.
	CacheInfo CacheInfo
}

// StageTime records how long one rewrite stage took.
type StageTime struct {
	Name     string
	Duration time.Duration
}

// Stats contains repair execution statistics.
type Stats struct {
	LineCount  int
	StageTimes []StageTime
	TotalTime  time.Duration
}

// CacheInfo tracks cache usage for a repair run.
type CacheInfo struct {
	RepairHit bool // Whether the result came from cache
}
