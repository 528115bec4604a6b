package table

import (
	"github.com/endorses/pcapview/internal/pkg/filtering"
	"github.com/endorses/pcapview/internal/pkg/logger"
	"github.com/endorses/pcapview/internal/pkg/types"
)

// OneShot is a table that accepts a row predicate for exactly one redraw.
// Tables with persistent filter pipelines should be wrapped to honour this,
// otherwise Reset cannot restore the unfiltered view.
type OneShot interface {
	DrawWith(p RowPredicate)
}

// Resettable is a one-shot table whose registered predicates can be dropped
type Resettable interface {
	OneShot
	ClearSearch()
}

// Clearable is a filter form whose inputs can be emptied
type Clearable interface {
	Clear()
}

// Apply evaluates c against the table for a single draw.
// Each call registers a fresh predicate; nothing is kept on the table.
// Returns the normalized predicate that was applied.
func Apply(t OneShot, c filtering.Criteria) filtering.Predicate {
	p := filtering.Normalize(c)
	logger.Debug("Applying local filter", "filter", p.String())
	t.DrawWith(p.MatchRow)
	return p
}

// Reset clears every filter input and every table predicate, then redraws
// so the full row set is visible again. Calling it repeatedly is harmless.
func Reset(t Resettable, form Clearable) {
	if form != nil {
		form.Clear()
	}
	t.ClearSearch()
	t.DrawWith(nil)
}

// Filter returns the rows matching c, in order, without touching any table
func Filter(rows []types.PacketRow, c filtering.Criteria) []types.PacketRow {
	p := filtering.Normalize(c)
	result := make([]types.PacketRow, 0, len(rows))
	for _, row := range rows {
		if p.Match(row) {
			result = append(result, row)
		}
	}
	return result
}
