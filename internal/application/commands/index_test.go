package commands

import (
	"context"
	"testing"

	"pictag/internal/domain"
)

func TestReindexCommand_Execute(t *testing.T) {
	catalog, _, pics := newTestCatalog(t)

	result, err := NewReindexCommand(catalog, nil).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Completion.Updated != 1 {
		t.Errorf("expected 1 updated picture, got %d", result.Completion.Updated)
	}
	if pics.tags[1]["#東方"] != domain.ProvenanceDerived {
		t.Errorf("expected #東方 derived on picture 1, got %v", pics.tags[1])
	}
	if result.Index.Incremental {
		t.Error("expected a full rebuild")
	}
	if !contains(result.Message, "1 unrecognized tags") {
		t.Errorf("unexpected message %q", result.Message)
	}
	if result.Stored == nil || !result.Stored.LastBuilt.Equal(indexBuiltAt) {
		t.Errorf("expected stored index info, got %+v", result.Stored)
	}
	if !contains(result.Message, "last full rebuild 2026-10-01 12:00:00") {
		t.Errorf("expected rebuild time in %q", result.Message)
	}

	cmd := NewReindexCommand(catalog, []int64{2})
	cmd.SkipCompletion = true
	result, err = cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Completion != nil || !result.Index.Incremental {
		t.Errorf("expected index-only incremental run, got %+v", result)
	}
	if !pics.index["#霊夢"].Has(1) {
		t.Error("incremental rebuild dropped an untouched picture")
	}
}

func TestUnrecognizedCommand_Execute(t *testing.T) {
	catalog, _, _ := newTestCatalog(t)

	result, err := NewUnrecognizedCommand(catalog, 0).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || result.Tags[0].Tag != "#unknown" || result.Tags[0].Count != 1 {
		t.Errorf("expected #unknown once, got %+v", result.Tags)
	}
}

func TestCompleteCommand_Execute(t *testing.T) {
	catalog, _, pics := newTestCatalog(t)

	result, err := NewCompleteCommand(catalog, []int64{1}).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Report.Items != 1 || result.Report.Updated != 1 {
		t.Errorf("expected one completed picture, got %+v", result.Report)
	}
	if pics.tags[1]["#東方"] != domain.ProvenanceDerived {
		t.Errorf("expected #東方 derived on picture 1, got %v", pics.tags[1])
	}
	if len(pics.index) != 0 {
		t.Errorf("completion must not build the index, got %v", pics.index.Tags())
	}

	result, err = NewCompleteCommand(catalog, nil).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !contains(result.Message, "1 unrecognized tags") {
		t.Errorf("unexpected message %q", result.Message)
	}
	if result.Stored == nil || !result.Stored.LastBuilt.Equal(indexBuiltAt) {
		t.Errorf("expected stored index info, got %+v", result.Stored)
	}
	if !contains(result.Message, "last full rebuild 2026-10-01 12:00:00") {
		t.Errorf("expected rebuild time in %q", result.Message)
	}
}
