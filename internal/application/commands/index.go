package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pictag/internal/application"
)

// ReindexResult contains the outcome of completion and index rebuild
type ReindexResult struct {
	Completion *application.CompletionReport
	Index      application.IndexStats
	// Stored is nil when the picture store keeps no index metadata
	Stored  *application.IndexInfo
	Message string
}

// ReindexCommand completes stored tags and rebuilds the inverted index,
// for the given pictures or for all of them
type ReindexCommand struct {
	catalog *application.Catalog
	PIDs    []int64
	// SkipCompletion rebuilds the index from the stored tags as they are
	SkipCompletion bool
}

// NewReindexCommand creates a new ReindexCommand. A nil pids reindexes
// every picture.
func NewReindexCommand(catalog *application.Catalog, pids []int64) *ReindexCommand {
	return &ReindexCommand{catalog: catalog, PIDs: pids}
}

// Execute runs the rebuild
func (c *ReindexCommand) Execute(ctx context.Context) (*ReindexResult, error) {
	result := &ReindexResult{}
	if !c.SkipCompletion {
		report, err := c.catalog.Complete(c.PIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to complete tags: %w", err)
		}
		result.Completion = report
	}

	stats, err := c.catalog.BuildIndex(c.PIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}
	result.Index = stats

	scope := "full"
	if stats.Incremental {
		scope = "incremental"
	}
	result.Message = fmt.Sprintf("Indexed %d pictures (%s): %d tags, %d entries in %s",
		stats.Items, scope, stats.Tags, stats.Entries, stats.Duration.Round(time.Millisecond))
	if result.Completion != nil {
		result.Message = fmt.Sprintf("Completed %d of %d pictures, %d unrecognized tags\n%s",
			result.Completion.Updated, result.Completion.Items, len(result.Completion.Unrecognized), result.Message)
	}

	info, err := c.catalog.IndexInfo()
	switch {
	case err == nil:
		result.Stored = &info
		result.Message += "\n" + describeIndex(info)
	case !errors.Is(err, application.ErrNoCatalog):
		return nil, err
	}
	return result, nil
}

// CompleteResult contains the outcome of a completion pass
type CompleteResult struct {
	Report  *application.CompletionReport
	Message string
}

// CompleteCommand rewrites the stored tags of pictures to their ancestor
// closure without touching the index
type CompleteCommand struct {
	catalog *application.Catalog
	PIDs    []int64
}

// NewCompleteCommand creates a new CompleteCommand. A nil pids completes
// every picture.
func NewCompleteCommand(catalog *application.Catalog, pids []int64) *CompleteCommand {
	return &CompleteCommand{catalog: catalog, PIDs: pids}
}

// Execute runs the completion
func (c *CompleteCommand) Execute(ctx context.Context) (*CompleteResult, error) {
	report, err := c.catalog.Complete(c.PIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to complete tags: %w", err)
	}
	msg := fmt.Sprintf("Completed %d of %d pictures in %s", report.Updated, report.Items, report.Duration.Round(time.Millisecond))
	if n := len(report.Unrecognized); n > 0 {
		msg += fmt.Sprintf(", %d unrecognized tags (%d occurrences)", n, report.Occurrences)
	}
	return &CompleteResult{Report: report, Message: msg}, nil
}

// UnrecognizedResult lists stored tags missing from the ontology
type UnrecognizedResult struct {
	Tags    []application.TagCount
	Total   int
	Message string
}

// UnrecognizedCommand reports tags used by pictures that the ontology does
// not know, most used first
type UnrecognizedCommand struct {
	catalog *application.Catalog
	Limit   int
}

// NewUnrecognizedCommand creates a new UnrecognizedCommand
func NewUnrecognizedCommand(catalog *application.Catalog, limit int) *UnrecognizedCommand {
	return &UnrecognizedCommand{catalog: catalog, Limit: limit}
}

// Execute builds the report
func (c *UnrecognizedCommand) Execute(ctx context.Context) (*UnrecognizedResult, error) {
	tags, err := c.catalog.Unrecognized()
	if err != nil {
		return nil, err
	}
	result := &UnrecognizedResult{Tags: tags, Total: len(tags)}
	if c.Limit > 0 && len(result.Tags) > c.Limit {
		result.Tags = result.Tags[:c.Limit]
	}
	result.Message = fmt.Sprintf("%d unrecognized tags", result.Total)
	return result, nil
}

func describeIndex(info application.IndexInfo) string {
	if info.LastBuilt.IsZero() {
		return fmt.Sprintf("Index holds %d tags, never fully rebuilt", info.Tags)
	}
	return fmt.Sprintf("Index holds %d tags, last full rebuild %s", info.Tags, info.LastBuilt.Format(time.DateTime))
}
