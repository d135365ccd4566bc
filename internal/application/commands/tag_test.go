package commands

import (
	"context"
	"errors"
	"testing"

	"pictag/internal/application"
	"pictag/internal/domain"
)

func TestAddTagCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		parent  string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid tag",
			tag:     "#魔理沙",
			parent:  "#東方",
			wantErr: false,
		},
		{
			name:    "valid category",
			tag:     "Character",
			parent:  domain.RootName,
			wantErr: false,
		},
		{
			name:    "empty tag",
			tag:     "",
			parent:  "#東方",
			wantErr: true,
			errMsg:  "tag name is required",
		},
		{
			name:    "padded tag",
			tag:     "#魔理沙 ",
			parent:  "#東方",
			wantErr: true,
			errMsg:  "leading or trailing whitespace",
		},
		{
			name:    "empty parent",
			tag:     "#魔理沙",
			parent:  "",
			wantErr: true,
			errMsg:  "parent name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &AddTagCommand{Tag: tt.tag, Parent: tt.parent}
			err := cmd.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAddTagCommand_Execute(t *testing.T) {
	catalog, tree, _ := newTestCatalog(t)

	result, err := NewAddTagCommand(catalog, "#魔理沙", "#東方").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "Added tag #魔理沙 under #東方" {
		t.Errorf("unexpected message %q", result.Message)
	}
	if tree.saves != 1 {
		t.Errorf("expected tree saved once, got %d", tree.saves)
	}
	if catalog.Dirty() {
		t.Error("expected catalog clean after save")
	}

	_, err = NewAddTagCommand(catalog, "#魔理沙", "#東方").Execute(context.Background())
	if !errors.Is(err, application.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
	if tree.saves != 1 {
		t.Errorf("failed command must not save, got %d saves", tree.saves)
	}
}

func TestAddParentCommand_Execute(t *testing.T) {
	catalog, _, _ := newTestCatalog(t)

	result, err := NewAddParentCommand(catalog, "#霊夢", "#Girl").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Parents) != 2 || result.Parents[0] != "#東方" || result.Parents[1] != "#Girl" {
		t.Errorf("expected parents [#東方 #Girl], got %v", result.Parents)
	}

	_, err = NewAddParentCommand(catalog, "#東方", "#霊夢").Execute(context.Background())
	if !errors.Is(err, application.ErrInvalidEdge) {
		t.Errorf("expected cycle to be rejected with ErrInvalidEdge, got %v", err)
	}
}

func TestDeleteTagCommand_Execute(t *testing.T) {
	catalog, _, _ := newTestCatalog(t)
	if err := catalog.AddParentTag("#霊夢", "#Girl"); err != nil {
		t.Fatal(err)
	}

	result, err := NewDeleteTagCommand(catalog, "#霊夢", "#Girl").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Removed {
		t.Error("tag with a remaining parent must not be removed")
	}

	result, err = NewDeleteTagCommand(catalog, "#霊夢", "#東方").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Removed || result.Message != "Deleted #霊夢" {
		t.Errorf("expected #霊夢 deleted, got %+v", result)
	}

	_, err = NewDeleteTagCommand(catalog, "#Girl", "#東方").Execute(context.Background())
	if !errors.Is(err, application.ErrInvalidEdge) {
		t.Errorf("expected ErrInvalidEdge for a missing edge, got %v", err)
	}
}

func TestMoveTagCommand_Execute(t *testing.T) {
	t.Run("moves", func(t *testing.T) {
		catalog, _, _ := newTestCatalog(t)
		result, err := NewMoveTagCommand(catalog, "#霊夢", "#東方", "#Girl").Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Partial {
			t.Error("expected a complete move")
		}
		rec, _ := catalog.Tag("#霊夢")
		if len(rec.Parents) != 1 || rec.Parents[0] != "#Girl" {
			t.Errorf("expected parents [#Girl], got %v", rec.Parents)
		}
	})

	t.Run("partial", func(t *testing.T) {
		catalog, tree, _ := newTestCatalog(t)
		result, err := NewMoveTagCommand(catalog, "#霊夢", "Works", "#Girl").Execute(context.Background())
		if err == nil {
			t.Fatal("expected an error for a missing source edge")
		}
		if result == nil || !result.Partial {
			t.Fatalf("expected a partial result, got %+v", result)
		}
		if !contains(result.Message, "could not detach") {
			t.Errorf("unexpected message %q", result.Message)
		}
		if tree.saves != 1 {
			t.Errorf("expected partial state to be saved, got %d saves", tree.saves)
		}
	})

	t.Run("missing destination", func(t *testing.T) {
		catalog, tree, _ := newTestCatalog(t)
		result, err := NewMoveTagCommand(catalog, "#霊夢", "#東方", "#nope").Execute(context.Background())
		if !errors.Is(err, application.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if result != nil || tree.saves != 0 {
			t.Errorf("expected nothing saved, got result %+v and %d saves", result, tree.saves)
		}
	})
}

func TestSynonymCommand_Execute(t *testing.T) {
	catalog, _, _ := newTestCatalog(t)

	result, err := NewSynonymCommand(catalog, SynonymAdd, "#東方", "#Touhou").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Synonyms) != 1 || result.Synonyms[0] != "#Touhou" {
		t.Errorf("expected [#Touhou], got %v", result.Synonyms)
	}

	result, err = NewSynonymCommand(catalog, SynonymRemove, "#東方", "#Touhou").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Synonyms) != 0 {
		t.Errorf("expected no synonyms, got %v", result.Synonyms)
	}

	if err := NewSynonymCommand(catalog, SynonymAdd, "#東方", "").Validate(); err == nil {
		t.Error("expected empty synonym to fail validation")
	}
}

func TestEditTagCommand_Execute(t *testing.T) {
	catalog, _, _ := newTestCatalog(t)

	result, err := NewEditTagCommand(catalog, "#東方", "Touhou Project", "IP").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tag.EnglishName != "Touhou Project" || result.Tag.Type != "IP" {
		t.Errorf("unexpected record %+v", result.Tag)
	}

	if err := NewEditTagCommand(catalog, "#東方", "東方", "").Validate(); err == nil {
		t.Error("expected non-ASCII English name to fail validation")
	}
}

func TestShowTagCommand_Execute(t *testing.T) {
	catalog, _, _ := newTestCatalog(t)

	result, err := NewShowTagCommand(catalog, "#霊夢").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Ancestors) != 1 || result.Ancestors[0] != "#東方" {
		t.Errorf("expected ancestors [#東方], got %v", result.Ancestors)
	}

	result, err = NewShowTagCommand(catalog, "Works").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Descendants) != 2 {
		t.Errorf("expected 2 descendants of Works, got %v", result.Descendants)
	}

	if _, err := NewShowTagCommand(catalog, "#nope").Execute(context.Background()); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
