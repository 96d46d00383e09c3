package controlpanel

import "sort"

// SortableModel is implemented by list models that use SortModelInserted to
// stay sorted as rows are added.
type SortableModel interface {
	RowCount() int
	// Inserted notifies observers of new rows
	Inserted(start, count int)

	// RowLess reports whether row i sorts before row j
	RowLess(i, j int) bool
	// RowMove moves row src to index dst without notifying observers
	RowMove(src, dst int)
}

// SortModelInserted sorts newly appended rows [start:end] into place and
// calls Inserted for each contiguous run of rows at their final positions.
// Rows before start must already be sorted.
//
// Every Inserted call is made while the indices it reports are valid, so
// observers that apply inserts one by one end up with the sorted list.
func SortModelInserted(model SortableModel, start, end int) {
	if count := model.RowCount(); end > count {
		end = count
	}

	runStart, runLen := -1, 0
	flush := func() {
		if runLen > 0 {
			model.Inserted(runStart, runLen)
		}
		runStart, runLen = -1, 0
	}

	for i := start; i < end; i++ {
		pos := sort.Search(i, func(j int) bool { return model.RowLess(i, j) })
		// A row landing outside the pending run would shift it; report the run first
		if runLen > 0 && (pos < runStart || pos > runStart+runLen) {
			flush()
		}
		if pos != i {
			model.RowMove(i, pos)
		}
		if runLen == 0 {
			runStart = pos
		}
		runLen++
	}
	flush()
}
