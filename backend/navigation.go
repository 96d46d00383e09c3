package controlpanel

import (
	"github.com/rs/zerolog/log"
)

// Row is a selectable entry of a navigation list. A row may carry the name of
// the panel it shows; rows without one are selectable but change nothing.
type Row struct {
	Title string

	panel    string
	hasPanel bool
}

// PanelRow returns a row that shows the panel called name.
func PanelRow(title, name string) Row {
	return Row{Title: title, panel: name, hasPanel: true}
}

// PlainRow returns a row without a panel.
func PlainRow(title string) Row {
	return Row{Title: title}
}

// Panel returns the name of the panel the row shows, if it has one.
func (r Row) Panel() (string, bool) {
	return r.panel, r.hasPanel
}

// Stack shows one of a set of named panels at a time.
type Stack interface {
	SetVisible(name string)
}

// PanelStack is a Stack that only tracks which panel is visible.
type PanelStack struct {
	names   []string
	visible string
}

var _ Stack = &PanelStack{}

func NewPanelStack(names ...string) *PanelStack {
	return &PanelStack{names: append([]string(nil), names...)}
}

// Add registers a panel. The first panel added is visible until another is
// selected.
func (s *PanelStack) Add(name string) {
	if s.Has(name) {
		return
	}
	s.names = append(s.names, name)
}

func (s *PanelStack) Has(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

func (s *PanelStack) Names() []string {
	return append([]string(nil), s.names...)
}

// SetVisible shows the named panel. Names that were never added are logged
// and leave the visible panel unchanged.
func (s *PanelStack) SetVisible(name string) {
	if !s.Has(name) {
		log.Warn().Str("panel", name).Msg("no such panel in stack")
		return
	}
	s.visible = name
}

// Visible returns the visible panel. Before any selection this is the first
// panel added, or "" for an empty stack.
func (s *PanelStack) Visible() string {
	if s.visible == "" && len(s.names) > 0 {
		return s.names[0]
	}
	return s.visible
}

// Selector maps the selected row of a navigation list to the visible panel of
// a stack. It has no bindings of its own.
type Selector struct {
	rows     []Row
	stack    Stack
	selected int
}

func NewSelector(stack Stack, rows ...Row) *Selector {
	return &Selector{
		rows:     append([]Row(nil), rows...),
		stack:    stack,
		selected: -1,
	}
}

// Init selects the first row, if there is one, so that a panel is visible
// before any user interaction.
func (s *Selector) Init() {
	if len(s.rows) > 0 {
		s.Select(0)
	}
}

func (s *Selector) Rows() []Row {
	return append([]Row(nil), s.rows...)
}

// Selected returns the index of the selected row, or -1.
func (s *Selector) Selected() int {
	return s.selected
}

// Select handles a selection change to row index. Rows without a panel and
// indices outside the list are logged and otherwise ignored; the visible
// panel stays as it was.
func (s *Selector) Select(index int) {
	if index < 0 || index >= len(s.rows) {
		log.Warn().Int("row", index).Msg("invalid row selected")
		return
	}
	s.selected = index

	row := s.rows[index]
	name, ok := row.Panel()
	if !ok {
		log.Info().Int("row", index).Str("title", row.Title).Msg("selected row has no panel")
		return
	}
	s.stack.SetVisible(name)
}

// SettingsPanel is the settings page: a navigation list beside a stack of
// sections.
type SettingsPanel struct {
	stack    *PanelStack
	selector *Selector
	record   Record
	bindings BindingSet
}

var _ Bindable = &SettingsPanel{}

// NewSettingsPanel creates a settings page with a section per row. Every
// row with a panel name adds that section to the stack. The first row is
// selected.
func NewSettingsPanel(rows ...Row) *SettingsPanel {
	stack := NewPanelStack()
	for _, r := range rows {
		if name, ok := r.Panel(); ok {
			stack.Add(name)
		}
	}
	p := &SettingsPanel{
		stack:    stack,
		selector: NewSelector(stack, rows...),
	}
	p.selector.Init()
	return p
}

func (p *SettingsPanel) Stack() *PanelStack {
	return p.stack
}

func (p *SettingsPanel) Selector() *Selector {
	return p.selector
}

// Bind attaches the settings record. Settings sections declare no field
// bindings yet, so this only replaces the record.
func (p *SettingsPanel) Bind(record Record) {
	p.Unbind()
	p.record = record
}

func (p *SettingsPanel) Unbind() {
	p.bindings.Release()
	p.record = nil
}

func (p *SettingsPanel) Record() Record {
	return p.record
}
