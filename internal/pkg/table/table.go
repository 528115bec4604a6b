// Package table holds the rendered packet table and the local filter applier.
// The table keeps every row and a per-row visibility flag; filtering only
// ever changes visibility, never the rows themselves.
package table

import (
	"sync"

	"github.com/endorses/pcapview/internal/pkg/types"
)

// RowPredicate decides whether a row is included in a draw
type RowPredicate func(row types.PacketRow) bool

// PacketTable is a packet table with a search predicate stack.
// Every registered predicate must accept a row for it to be visible (AND).
type PacketTable struct {
	mu           sync.RWMutex
	rows         []types.PacketRow
	visible      []bool
	search       []RowPredicate
	visibleCount int
	observer     types.DrawObserver
}

// New creates a table showing all rows
func New(rows []types.PacketRow) *PacketTable {
	t := &PacketTable{observer: &types.NoopDrawObserver{}}
	t.SetRows(rows)
	return t
}

// SetObserver registers the observer notified after each draw
func (t *PacketTable) SetObserver(o types.DrawObserver) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if o == nil {
		o = &types.NoopDrawObserver{}
	}
	t.observer = o
}

// SetRows replaces the table contents and makes every row visible.
// The search stack is kept; it applies on the next draw.
func (t *PacketTable) SetRows(rows []types.PacketRow) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = make([]types.PacketRow, len(rows))
	copy(t.rows, rows)
	t.visible = make([]bool, len(rows))
	for i := range t.visible {
		t.visible[i] = true
	}
	t.visibleCount = len(rows)
}

// PushSearch registers a predicate for subsequent draws
func (t *PacketTable) PushSearch(p RowPredicate) {
	if p == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.search = append(t.search, p)
}

// PopSearch removes the most recently registered predicate.
// Returns false if the stack was empty.
func (t *PacketTable) PopSearch() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.search) == 0 {
		return false
	}
	t.search[len(t.search)-1] = nil
	t.search = t.search[:len(t.search)-1]
	return true
}

// ClearSearch removes every registered predicate
func (t *PacketTable) ClearSearch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.search = nil
}

// SearchDepth returns the number of registered predicates
func (t *PacketTable) SearchDepth() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.search)
}

// Draw recomputes row visibility against the search stack
func (t *PacketTable) Draw() {
	t.mu.Lock()
	t.drawLocked()
	visible, total, observer := t.visibleCount, len(t.rows), t.observer
	t.mu.Unlock()

	observer.OnDraw(visible, total)
}

// DrawWith registers p for exactly one draw and removes it afterwards.
// A nil predicate is a plain draw.
func (t *PacketTable) DrawWith(p RowPredicate) {
	if p == nil {
		t.Draw()
		return
	}

	t.mu.Lock()
	t.search = append(t.search, p)
	t.drawLocked()
	t.search[len(t.search)-1] = nil
	t.search = t.search[:len(t.search)-1]
	visible, total, observer := t.visibleCount, len(t.rows), t.observer
	t.mu.Unlock()

	observer.OnDraw(visible, total)
}

// drawLocked re-evaluates all rows (must hold lock)
func (t *PacketTable) drawLocked() {
	t.visibleCount = 0
	for i, row := range t.rows {
		include := true
		for _, p := range t.search {
			if !p(row) {
				include = false
				break
			}
		}
		t.visible[i] = include
		if include {
			t.visibleCount++
		}
	}
}

// Rows returns every row in table order
func (t *PacketTable) Rows() []types.PacketRow {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]types.PacketRow, len(t.rows))
	copy(result, t.rows)
	return result
}

// VisibleRows returns the rows included by the last draw
func (t *PacketTable) VisibleRows() []types.PacketRow {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]types.PacketRow, 0, t.visibleCount)
	for i, row := range t.rows {
		if t.visible[i] {
			result = append(result, row)
		}
	}
	return result
}

// VisibleCount returns the number of rows shown by the last draw
func (t *PacketTable) VisibleCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.visibleCount
}

// Len returns the total number of rows
func (t *PacketTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
