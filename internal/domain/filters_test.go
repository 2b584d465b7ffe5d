package domain

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestFilterMerge(t *testing.T) {
	level := strPtr("ERROR")
	search := strPtr("timeout")
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Unset Fields Retain Prior Value", func(t *testing.T) {
		f := LogFilters{Level: level, Search: search, LastRunOnly: true}
		merged := f.Merge(FilterPatch{SetCategory: true, Category: strPtr("agent.tools")})

		if merged.Level == nil || *merged.Level != "ERROR" {
			t.Errorf("expected level to be retained, got %v", merged.Level)
		}
		if merged.Search == nil || *merged.Search != "timeout" {
			t.Errorf("expected search to be retained, got %v", merged.Search)
		}
		if !merged.LastRunOnly {
			t.Error("expected lastRunOnly to be retained")
		}
		if merged.Category == nil || *merged.Category != "agent.tools" {
			t.Errorf("expected category to be set, got %v", merged.Category)
		}
	})

	t.Run("Set To Nil Clears Field", func(t *testing.T) {
		f := LogFilters{Level: level}
		merged := f.Merge(FilterPatch{SetLevel: true})

		if merged.Level != nil {
			t.Errorf("expected level to be cleared, got %v", *merged.Level)
		}
	})

	t.Run("Empty Patch Changes Nothing", func(t *testing.T) {
		f := LogFilters{Level: level, StartTime: &start}
		merged := f.Merge(FilterPatch{})

		if !merged.Equal(f) {
			t.Errorf("expected merge with empty patch to be identity, got %+v", merged)
		}
	})
}

func TestDefaultFilters(t *testing.T) {
	def := DefaultFilters()

	if def.HasActive() {
		t.Error("expected default filters to report no active filters")
	}
	if def.Level != nil || def.Category != nil || def.Search != nil ||
		def.StartTime != nil || def.EndTime != nil || def.RunID != nil || def.LastRunOnly {
		t.Errorf("expected all fields unset, got %+v", def)
	}
}

func TestHasActive(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		filters LogFilters
		want    bool
	}{
		{"Default", LogFilters{}, false},
		{"Level", LogFilters{Level: strPtr("ERROR")}, true},
		{"Category", LogFilters{Category: strPtr("agent")}, true},
		{"Search", LogFilters{Search: strPtr("x")}, true},
		{"Start Time", LogFilters{StartTime: &now}, true},
		{"End Time", LogFilters{EndTime: &now}, true},
		{"Run ID", LogFilters{RunID: strPtr("run-1")}, true},
		{"Last Run Only", LogFilters{LastRunOnly: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.HasActive(); got != tt.want {
				t.Errorf("HasActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchOnly(t *testing.T) {
	if !(FilterPatch{SetSearch: true, Search: strPtr("a")}).SearchOnly() {
		t.Error("expected search-only patch to report SearchOnly")
	}
	if (FilterPatch{SetSearch: true, SetLevel: true}).SearchOnly() {
		t.Error("expected patch touching level to not report SearchOnly")
	}
	if (FilterPatch{}).SearchOnly() {
		t.Error("expected empty patch to not report SearchOnly")
	}
}
