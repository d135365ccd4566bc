package commands

import (
	"context"
	"errors"
	"slices"
	"testing"

	"pictag/internal/application"
	"pictag/internal/domain"
)

func TestTagPictureCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		pid     int64
		tags    []string
		wantErr bool
	}{
		{"valid", 3, []string{"#霊夢"}, false},
		{"zero pid", 0, []string{"#霊夢"}, true},
		{"no tags", 3, nil, true},
		{"category name", 3, []string{"Works"}, true},
		{"bare marker", 3, []string{"#"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTagPictureCommand(nil, tt.pid, tt.tags).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			var verr *application.ValidationError
			if err != nil && !errors.As(err, &verr) {
				t.Errorf("expected a ValidationError, got %T", err)
			}
		})
	}
}

func TestTagPictureCommand_ValidateXRestrict(t *testing.T) {
	cmd := NewTagPictureCommand(nil, 3, []string{"#霊夢"})
	cmd.XRestrict = 3
	if err := cmd.Validate(); err == nil {
		t.Error("expected x_restrict 3 to be rejected")
	}
}

func TestTagPictureCommand_Metadata(t *testing.T) {
	catalog, _, pics := newTestCatalog(t)

	cmd := NewTagPictureCommand(catalog, 5, []string{"#Girl"})
	cmd.Title = "夏"
	cmd.User = "artist"
	cmd.UserID = 11
	if _, err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewTagPictureCommand(catalog, 5, []string{"#霊夢"}).Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := pics.pictures[5]; got.Title != "夏" || got.UserID != 11 {
		t.Errorf("expected stored metadata to survive retagging, got %+v", got)
	}
	result, err := NewPictureTagsCommand(catalog, 5).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Title != "夏" || result.User != "artist" {
		t.Errorf("expected title and user, got %+v", result)
	}
	if !slices.Equal(result.Explicit, []string{"#Girl", "#霊夢"}) {
		t.Errorf("expected both explicit tags, got %v", result.Explicit)
	}
}

func TestTagPictureCommand_Execute(t *testing.T) {
	catalog, _, pics := newTestCatalog(t)
	pics.tags[3] = domain.ItemTags{}

	result, err := NewTagPictureCommand(catalog, 3, []string{"#霊夢"}).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tags["#霊夢"] != domain.ProvenanceExplicit || result.Tags["#東方"] != domain.ProvenanceDerived {
		t.Errorf("expected explicit #霊夢 and derived #東方, got %v", result.Tags)
	}

	pids, err := catalog.Search([]string{"#東方"}, nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !slices.Contains(pids, 3) {
		t.Errorf("expected picture 3 in %v", pids)
	}
}

func TestPictureTagsCommand_Execute(t *testing.T) {
	catalog, _, pics := newTestCatalog(t)
	pics.tags[1]["#東方"] = domain.ProvenanceDerived

	result, err := NewPictureTagsCommand(catalog, 1).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(result.Explicit, []string{"#霊夢"}) || !slices.Equal(result.Derived, []string{"#東方"}) {
		t.Errorf("unexpected split %+v", result)
	}

	_, err = NewPictureTagsCommand(catalog, 99).Execute(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
