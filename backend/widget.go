package controlpanel

import "fmt"

// Property names a writable property of a widget.
type Property int

const (
	// PropertyLabel takes a string.
	PropertyLabel Property = iota
	// PropertyResource takes an IconRef.
	PropertyResource
	// PropertyVisible takes a bool.
	PropertyVisible
)

func (p Property) String() string {
	switch p {
	case PropertyLabel:
		return "label"
	case PropertyResource:
		return "resource"
	case PropertyVisible:
		return "visible"
	default:
		return fmt.Sprintf("property(%d)", int(p))
	}
}

// IconRef is an opaque resource path, resolved by the frontend.
type IconRef string

// Widget is the toolkit side of a binding. Write must accept the presentation
// values produced by the transform catalog: string for labels, IconRef for
// resources and bool for visibility.
type Widget interface {
	Write(property Property, value interface{})
}

// PropertySheet is a Widget that keeps the last value written to each
// property. Frontends render from it; it never draws anything itself.
type PropertySheet struct {
	name   string
	values map[Property]interface{}
	writes int
}

var _ Widget = &PropertySheet{}

// NewPropertySheet returns a visible widget with no label or resource.
func NewPropertySheet(name string) *PropertySheet {
	return &PropertySheet{
		name:   name,
		values: map[Property]interface{}{PropertyVisible: true},
	}
}

func (w *PropertySheet) Name() string {
	return w.name
}

func (w *PropertySheet) Write(property Property, value interface{}) {
	w.values[property] = value
	w.writes++
}

// Value returns the raw value of property and whether it was ever set.
func (w *PropertySheet) Value(property Property) (interface{}, bool) {
	v, ok := w.values[property]
	return v, ok
}

// Text returns the label, or "" if the label is unset or not a string.
func (w *PropertySheet) Text() string {
	s, _ := w.values[PropertyLabel].(string)
	return s
}

// SetText is shorthand for writing the label.
func (w *PropertySheet) SetText(text string) {
	w.Write(PropertyLabel, text)
}

// Resource returns the icon reference, or "" if unset.
func (w *PropertySheet) Resource() IconRef {
	r, _ := w.values[PropertyResource].(IconRef)
	return r
}

func (w *PropertySheet) Visible() bool {
	v, _ := w.values[PropertyVisible].(bool)
	return v
}

// Writes returns the number of property writes so far.
func (w *PropertySheet) Writes() int {
	return w.writes
}
