// Package adapters implements the source-adapter contract from spec
// §4.1: one adapter per external source, each issuing a single
// logical query and returning a common raw-record shape. Adapters
// never raise upward; every failure mode becomes a structured Result
// with Success=false and Errors populated.
package adapters

import (
	"context"
	"time"

	"okapiq/pkg/okapiq/model"
)

// Record is a loosely-shaped per-business dictionary as returned by a
// source. Keys may be missing; downstream Normalizer code reads with
// the typed accessors in record.go.
type Record map[string]interface{}

// SearchParams are the query parameters every adapter receives,
// regardless of source-specific extras.
type SearchParams struct {
	Location  string
	Industry  string
	Timestamp time.Time
	Radius    int

	// Source-specific optional extras.
	Query     string
	ActorSlug string
	MappingHint string
}

// Request is the input record every adapter's Fetch receives.
type Request struct {
	SourceType    model.SourceName
	TargetURLOrKey string
	Search        SearchParams
	UseProxy      bool
	DelayRangeMs  [2]int
	MaxRetries    int
}

// Result is the uniform output every adapter's Fetch returns.
type Result struct {
	Success   bool
	Data      []Record
	Metadata  map[string]interface{}
	Timestamp time.Time
	SourceName model.SourceName
	Errors    []model.Failure
}

// Adapter is the uniform capability contract spec §4.1 requires.
// Implementations are stateless; the Crawler Hub owns rate-limit state.
type Adapter interface {
	Name() model.SourceName
	Fetch(ctx context.Context, req Request) Result
}

// failResult builds a Result carrying exactly one structured failure.
func failResult(source model.SourceName, kind model.FailureKind, msg string) Result {
	return Result{
		Success:    false,
		Data:       nil,
		Metadata:   map[string]interface{}{},
		Timestamp:  time.Now(),
		SourceName: source,
		Errors:     []model.Failure{model.NewFailure(kind, source, msg)},
	}
}

func okResult(source model.SourceName, data []Record, meta map[string]interface{}) Result {
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return Result{
		Success:    true,
		Data:       data,
		Metadata:   meta,
		Timestamp:  time.Now(),
		SourceName: source,
	}
}
