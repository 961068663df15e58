// ABOUTME: Tests for the category registry: ordering, lookups, and duplicate/empty ID rejection.
// ABOUTME: Covers the default category set shipped with the directory.
package content

import "testing"

func TestDefaultCategoriesIncludeCoreSet(t *testing.T) {
	reg, err := NewRegistry(DefaultCategories())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range []string{"agents", "mcp", "rules", "commands", "hooks", "statuslines", "collections"} {
		if _, ok := reg.Get(id); !ok {
			t.Errorf("expected default category %q", id)
		}
	}
}

func TestRegistryPreservesOrder(t *testing.T) {
	reg, err := NewRegistry([]Category{
		{ID: "b", Title: "B"},
		{ID: "a", Title: "A"},
		{ID: "c", Title: "C"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := reg.IDs()
	want := []string{"b", "a", "c"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], ids[i])
		}
	}
}

func TestRegistryRejectsDuplicateID(t *testing.T) {
	_, err := NewRegistry([]Category{
		{ID: "agents", Title: "Agents"},
		{ID: "agents", Title: "Agents Again"},
	})
	if err == nil {
		t.Fatal("expected error for duplicate category ID")
	}
}

func TestRegistryRejectsEmptyID(t *testing.T) {
	_, err := NewRegistry([]Category{{ID: "", Title: "Nameless"}})
	if err == nil {
		t.Fatal("expected error for empty category ID")
	}
}

func TestRegistryRejectsEmptySet(t *testing.T) {
	_, err := NewRegistry(nil)
	if err == nil {
		t.Fatal("expected error for empty category set")
	}
}

func TestRegistryAllReturnsCopy(t *testing.T) {
	reg, err := NewRegistry([]Category{{ID: "agents", Title: "Agents"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all := reg.All()
	all[0].ID = "mutated"
	if got := reg.IDs()[0]; got != "agents" {
		t.Errorf("registry mutated through All(): %q", got)
	}
}
