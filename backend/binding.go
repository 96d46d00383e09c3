package controlpanel

import "sync/atomic"

var liveBindings int64

// LiveBindings returns the number of bindings in the process that have been
// created and not yet released. It is safe to call from any goroutine.
func LiveBindings() int64 {
	return atomic.LoadInt64(&liveBindings)
}

// Binding is a live link from one field of a record to one property of a
// widget. The property is written once when the binding is created, and again
// each time the field changes, until Unbind.
type Binding struct {
	source    Record
	field     Field
	target    Widget
	property  Property
	transform Transform
	sub       Subscription
	bound     bool
}

// BindProperty creates a binding and immediately writes the transformed
// current value of field to property. A nil transform writes raw values.
func BindProperty(source Record, field Field, target Widget, property Property, transform Transform) *Binding {
	b := &Binding{
		source:    source,
		field:     field,
		target:    target,
		property:  property,
		transform: transform,
		bound:     true,
	}
	b.write(source.Read(field))
	b.sub = source.Subscribe(field, b.write)
	atomic.AddInt64(&liveBindings, 1)
	return b
}

func (b *Binding) write(raw interface{}) {
	if b.transform != nil {
		raw = b.transform(raw)
	}
	b.target.Write(b.property, raw)
}

func (b *Binding) Source() Record {
	return b.source
}

func (b *Binding) Field() Field {
	return b.field
}

func (b *Binding) Target() Widget {
	return b.target
}

func (b *Binding) Property() Property {
	return b.property
}

// Bound is true until Unbind is called.
func (b *Binding) Bound() bool {
	return b.bound
}

// Unbind stops the binding from writing to its target. Calling it again has
// no effect.
func (b *Binding) Unbind() {
	if !b.bound {
		return
	}
	b.source.Unsubscribe(b.sub)
	b.bound = false
	atomic.AddInt64(&liveBindings, -1)
}

// BindingSet is the ordered set of live bindings owned by one panel. Bindings
// are only appended while binding, and all released together.
type BindingSet struct {
	bindings []*Binding
}

func (s *BindingSet) Add(b *Binding) {
	s.bindings = append(s.bindings, b)
}

func (s *BindingSet) Len() int {
	return len(s.bindings)
}

// Bindings returns a copy of the live bindings, in creation order.
func (s *BindingSet) Bindings() []*Binding {
	return append([]*Binding(nil), s.bindings...)
}

// Release unbinds every binding and empties the set. Releasing an empty set
// does nothing.
func (s *BindingSet) Release() {
	for _, b := range s.bindings {
		b.Unbind()
	}
	s.bindings = nil
}
