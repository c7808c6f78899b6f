// Package pkg provides the libraries behind the folder catalog generator.
//
// # Overview
//
// A folder is a printed product catalog: logical pages of product cards,
// laid out on A4 sheets and written as PDF (or SVG, PNG, JSON). The pkg
// directory is organized into three areas:
//
//  1. [core] - Pure layout logic (colors, text fitting, cards, page
//     strategies, plan assembly). No I/O.
//  2. [writer] - Backends turning a render plan into document bytes.
//  3. Service plumbing - [pipeline], [cache], [jobs], [artifacts],
//     [server], [config] and [observability].
//
// # Architecture
//
// The typical data flow:
//
//	folder.Request (JSON/YAML)
//	         ↓
//	    [folder] package (decode, defaults, validation)
//	         ↓
//	    [core/plan] package (layout strategies + card layout → Plan)
//	         ↓
//	    [writer] package (PDF/SVG/PNG/JSON)
//
// [pipeline.Runner] drives the flow and caches both the plan and the
// written artifact, keyed by content hashes.
//
// # Quick Start
//
//	req, err := folder.DecodeFile("week.yaml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, nil, logger)
//	res, err := runner.Generate(ctx, req, "week.pdf")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d pages, %.2f KB\n", res.Stats.PhysicalPages, res.SizeKB())
//
// [core]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/core
// [writer]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/writer
// [pipeline]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/cache
// [jobs]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/jobs
// [artifacts]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/artifacts
// [server]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/server
// [config]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/config
// [observability]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/observability
// [folder]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/folder
// [core/plan]: https://pkg.go.dev/github.com/aanbieding/folder/pkg/core/plan
package pkg
