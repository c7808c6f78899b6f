// Package pipeline runs the request → plan → artifact pipeline for folders.
//
// This package is shared by the CLI and the HTTP API so both entry points
// validate, cache and write in exactly the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Plan: validate the request and assemble the render plan
//  2. Write: render the plan with the deployment's writer
//
// Both stages are cached. Plans are keyed by the hash of the canonical
// request, artifacts by the plan hash plus writer settings.
//
// # Usage
//
//	w, _ := writer.New(writer.FormatPDF, logger)
//	runner := pipeline.NewRunner(c, nil, w, logger)
//	result, err := runner.Generate(ctx, req, "/tmp/folder.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.PhysicalPages)
package pipeline

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aanbieding/folder/pkg/core/plan"
	"github.com/aanbieding/folder/pkg/writer"
)

// Result holds the output of a full generation.
type Result struct {
	// Plan is the assembled render plan.
	Plan *plan.Plan

	// PlanHash is the content hash of the plan.
	PlanHash string

	// Path is where the artifact was written.
	Path string

	// Format is the writer backend that produced the artifact.
	Format writer.Format

	// Size is the artifact size in bytes.
	Size int64

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks cache hits for each stage.
	CacheInfo CacheInfo
}

// Stats contains timing and size information about a generation.
type Stats struct {
	LogicalPages  int
	PhysicalPages int
	Cards         int
	LayoutTime    time.Duration
	WriteTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit     bool // Whether the plan came from cache
	ArtifactHit bool // Whether the artifact bytes came from cache
}

// SizeKB returns the artifact size in kilobytes, rounded to two decimals.
func (r *Result) SizeKB() float64 {
	return SizeKB(r.Size)
}

// SizeKB converts a byte count to kilobytes, rounded to two decimals.
func SizeKB(size int64) float64 {
	return decimal.NewFromInt(size).Div(decimal.NewFromInt(1024)).Round(2).InexactFloat64()
}
