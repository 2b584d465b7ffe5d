package domain

import "time"

// LogFilters is the current filter predicate for an entries query. Absence is
// represented by nil (or false for LastRunOnly), never by an empty string, so
// "unset" stays distinguishable from "explicitly empty."
type LogFilters struct {
	Level       *string
	Category    *string
	Search      *string
	StartTime   *time.Time
	EndTime     *time.Time
	RunID       *string
	LastRunOnly bool
}

// DefaultFilters returns the documented default filter object.
func DefaultFilters() LogFilters {
	return LogFilters{}
}

// FilterPatch is a partial filter update. Only fields whose Set flag is true
// participate in the merge; everything else retains its prior value.
type FilterPatch struct {
	Level       *string
	SetLevel    bool
	Category    *string
	SetCategory bool
	Search      *string
	SetSearch   bool
	StartTime   *time.Time
	SetStart    bool
	EndTime     *time.Time
	SetEnd      bool
	RunID       *string
	SetRunID    bool
	LastRunOnly bool
	SetLastRun  bool
}

// SearchOnly reports whether the patch touches the free-text search field and
// nothing else. Search is the only filter expected to change at keystroke
// cadence, so it is the only one the loader debounces.
func (p FilterPatch) SearchOnly() bool {
	return p.SetSearch && !p.SetLevel && !p.SetCategory && !p.SetStart && !p.SetEnd && !p.SetRunID && !p.SetLastRun
}

// Merge applies the patch on top of f and returns the result.
func (f LogFilters) Merge(p FilterPatch) LogFilters {
	out := f
	if p.SetLevel {
		out.Level = p.Level
	}
	if p.SetCategory {
		out.Category = p.Category
	}
	if p.SetSearch {
		out.Search = p.Search
	}
	if p.SetStart {
		out.StartTime = p.StartTime
	}
	if p.SetEnd {
		out.EndTime = p.EndTime
	}
	if p.SetRunID {
		out.RunID = p.RunID
	}
	if p.SetLastRun {
		out.LastRunOnly = p.LastRunOnly
	}
	return out
}

// HasActive reports whether any field differs from its default. Purely a UI
// affordance; fetch behavior never consults it.
func (f LogFilters) HasActive() bool {
	return f.Level != nil || f.Category != nil || f.Search != nil ||
		f.StartTime != nil || f.EndTime != nil || f.RunID != nil || f.LastRunOnly
}

// Equal reports whether two filter objects select the same entries.
func (f LogFilters) Equal(other LogFilters) bool {
	return eqStr(f.Level, other.Level) &&
		eqStr(f.Category, other.Category) &&
		eqStr(f.Search, other.Search) &&
		eqTime(f.StartTime, other.StartTime) &&
		eqTime(f.EndTime, other.EndTime) &&
		eqStr(f.RunID, other.RunID) &&
		f.LastRunOnly == other.LastRunOnly
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
