package controlpanel

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// ModelObserver is notified of changes to the rows of a ServiceModel. Changes
// to the fields of a row are not reported here; bind to the row's record for
// those.
type ModelObserver interface {
	// Inserted is called after count rows were inserted at start.
	Inserted(start, count int)
	// Removed is called after count rows were removed from start.
	Removed(start, count int)
	// Moved is called after count rows at start were moved to destination,
	// which is an index in the list before the move.
	Moved(start, count, destination int)
	// Reset is called after all rows were replaced.
	Reset()
}

// ServiceModel is the list of VM and service records known to the panel,
// sorted by display name. Records are identified by name; setting a service
// whose name is already in the model updates that record in place, so
// bindings to it stay live.
type ServiceModel struct {
	rows      []*ServiceObject
	observers []ModelObserver
}

var _ SortableModel = &ServiceModel{}

func NewServiceModel(services ...Service) *ServiceModel {
	m := &ServiceModel{}
	for _, s := range services {
		m.Set(s)
	}
	return m
}

// Observe adds an observer. Observers are called in the order they were
// added.
func (m *ServiceModel) Observe(o ModelObserver) {
	m.observers = append(m.observers, o)
}

func (m *ServiceModel) RowCount() int {
	return len(m.rows)
}

// Row returns the record at row, or nil if row is out of range.
func (m *ServiceModel) Row(row int) *ServiceObject {
	if row < 0 || row >= len(m.rows) {
		return nil
	}
	return m.rows[row]
}

// Rows returns all records in order.
func (m *ServiceModel) Rows() []*ServiceObject {
	return append([]*ServiceObject(nil), m.rows...)
}

// Index returns the row of the record called name, or -1.
func (m *ServiceModel) Index(name string) int {
	for i, r := range m.rows {
		if r.data.Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the record called name, or nil.
func (m *ServiceModel) Lookup(name string) *ServiceObject {
	return m.Row(m.Index(name))
}

func sortKey(s Service) string {
	if s.DisplayName != "" {
		return strings.ToLower(s.DisplayName)
	}
	return strings.ToLower(s.Name)
}

// RowLess orders rows by display name, falling back to the name.
func (m *ServiceModel) RowLess(i, j int) bool {
	ki, kj := sortKey(m.rows[i].data), sortKey(m.rows[j].data)
	if ki != kj {
		return ki < kj
	}
	return m.rows[i].data.Name < m.rows[j].data.Name
}

// RowMove moves row src to dst without notifying observers.
func (m *ServiceModel) RowMove(src, dst int) {
	if src == dst {
		return
	}
	r := m.rows[src]
	m.rows = append(m.rows[:src], m.rows[src+1:]...)
	m.rows = append(m.rows[:dst], append([]*ServiceObject{r}, m.rows[dst:]...)...)
}

// Set adds s, or updates the record with the same name. It returns the
// record.
func (m *ServiceModel) Set(s Service) *ServiceObject {
	if i := m.Index(s.Name); i >= 0 {
		obj := m.rows[i]
		obj.Update(s)
		m.resort(i)
		return obj
	}

	obj := NewServiceObject(s)
	m.rows = append(m.rows, obj)
	SortModelInserted(m, len(m.rows)-1, len(m.rows))
	return obj
}

// resort moves row to its sorted position after its sort key changed.
func (m *ServiceModel) resort(row int) {
	dst := row
	for dst > 0 && m.RowLess(row, dst-1) {
		dst--
	}
	for dst < len(m.rows)-1 && m.RowLess(dst+1, row) {
		dst++
	}
	if dst == row {
		return
	}
	m.RowMove(row, dst)
	dest := dst
	if dst > row {
		// Observers get the destination as an index before the move
		dest = dst + 1
	}
	m.Moved(row, 1, dest)
}

// Remove deletes the record called name and returns false if there is none.
// The removed record keeps working for anything still bound to it.
func (m *ServiceModel) Remove(name string) bool {
	i := m.Index(name)
	if i < 0 {
		log.Warn().Str("service", name).Msg("remove of unknown service")
		return false
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	m.Removed(i, 1)
	return true
}

// Reset replaces the contents of the model. Records whose names are in both
// the old and new contents are updated and kept. A name given more than once
// yields one record holding the last entry.
func (m *ServiceModel) Reset(services []Service) {
	existing := make(map[string]*ServiceObject, len(m.rows))
	for _, r := range m.rows {
		existing[r.data.Name] = r
	}

	rows := make([]*ServiceObject, 0, len(services))
	seen := make(map[string]*ServiceObject, len(services))
	for _, s := range services {
		if obj, ok := seen[s.Name]; ok {
			log.Warn().Str("service", s.Name).Msg("duplicate service in reset, later entry wins")
			obj.Update(s)
			continue
		}
		if obj, ok := existing[s.Name]; ok {
			obj.Update(s)
			rows = append(rows, obj)
			seen[s.Name] = obj
			delete(existing, s.Name)
		} else {
			obj := NewServiceObject(s)
			rows = append(rows, obj)
			seen[s.Name] = obj
		}
	}
	m.rows = rows
	for i := 1; i < len(m.rows); i++ {
		for j := i; j > 0 && m.RowLess(j, j-1); j-- {
			m.rows[j], m.rows[j-1] = m.rows[j-1], m.rows[j]
		}
	}

	for _, o := range m.observers {
		o.Reset()
	}
}

func (m *ServiceModel) Inserted(start, count int) {
	for _, o := range m.observers {
		o.Inserted(start, count)
	}
}

func (m *ServiceModel) Removed(start, count int) {
	for _, o := range m.observers {
		o.Removed(start, count)
	}
}

func (m *ServiceModel) Moved(start, count, destination int) {
	for _, o := range m.observers {
		o.Moved(start, count, destination)
	}
}
