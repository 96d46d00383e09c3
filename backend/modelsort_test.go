package controlpanel

import (
	"fmt"
	"sort"
	"testing"
)

type intModel struct {
	values   []int
	inserted [][2]int
	mirror   []int
}

func (m *intModel) RowCount() int          { return len(m.values) }
func (m *intModel) RowLess(i, j int) bool  { return m.values[i] < m.values[j] }
func (m *intModel) RowMove(src, dst int) {
	v := m.values[src]
	m.values = append(m.values[:src], m.values[src+1:]...)
	m.values = append(m.values[:dst], append([]int{v}, m.values[dst:]...)...)
}
func (m *intModel) Inserted(start, count int) {
	m.inserted = append(m.inserted, [2]int{start, count})
	added := append([]int(nil), m.values[start:start+count]...)
	m.mirror = append(m.mirror[:start], append(added, m.mirror[start:]...)...)
}

func TestSortModelInserted(t *testing.T) {
	cases := [][]int{
		{5},
		{1, 2, 3},
		{9, 8, 7},
		{4, 0, 6, 2},
		{3, 3, 1},
	}

	for _, add := range cases {
		m := &intModel{values: []int{1, 3, 5}, mirror: []int{1, 3, 5}}
		start := len(m.values)
		m.values = append(m.values, add...)
		SortModelInserted(m, start, len(m.values))

		if !sort.IntsAreSorted(m.values) {
			t.Errorf("Adding %v: model not sorted: %v", add, m.values)
		}
		if fmt.Sprint(m.mirror) != fmt.Sprint(m.values) {
			t.Errorf("Adding %v: inserts %v give %v, model is %v", add, m.inserted, m.mirror, m.values)
		}
		total := 0
		for _, ins := range m.inserted {
			total += ins[1]
		}
		if total != len(add) {
			t.Errorf("Adding %v: inserts %v cover %d rows", add, m.inserted, total)
		}
	}
}
