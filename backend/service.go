package controlpanel

import (
	uuid "github.com/satori/go.uuid"
)

type subscriber struct {
	id       Subscription
	field    Field
	callback func(interface{})
	active   bool
}

// ServiceObject is an observable Record holding a Service. It is the record
// type kept by ServiceModel; frontends and tests may also create them
// directly.
//
// ServiceObject is not safe for concurrent use. Changes and subscriptions
// must happen on the frontend's event loop.
type ServiceObject struct {
	id   string
	data Service

	subscribers map[Field][]*subscriber
	byID        map[Subscription]*subscriber
	nextSub     Subscription
}

var _ Record = &ServiceObject{}

// NewServiceObject returns a record for data with a new random identifier.
func NewServiceObject(data Service) *ServiceObject {
	u, _ := uuid.NewV4()
	return newServiceObjectID(data, u.String())
}

func newServiceObjectID(data Service, id string) *ServiceObject {
	return &ServiceObject{
		id:          id,
		data:        data,
		subscribers: make(map[Field][]*subscriber),
		byID:        make(map[Subscription]*subscriber),
	}
}

func (o *ServiceObject) Identifier() string {
	return o.id
}

// Data returns a snapshot of all fields.
func (o *ServiceObject) Data() Service {
	return o.data
}

func (o *ServiceObject) Read(field Field) interface{} {
	return o.data.Value(field)
}

func (o *ServiceObject) Subscribe(field Field, callback func(interface{})) Subscription {
	o.nextSub++
	s := &subscriber{
		id:       o.nextSub,
		field:    field,
		callback: callback,
		active:   true,
	}
	o.subscribers[field] = append(o.subscribers[field], s)
	o.byID[s.id] = s
	return s.id
}

// Unsubscribe removes a subscription. Unknown or already removed
// subscriptions are ignored.
func (o *ServiceObject) Unsubscribe(sub Subscription) {
	s, exists := o.byID[sub]
	if !exists {
		return
	}
	delete(o.byID, sub)
	s.active = false

	list := o.subscribers[s.field]
	for i, e := range list {
		if e == s {
			// Copy rather than shift in place; changed() may be iterating the old slice
			next := make([]*subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			o.subscribers[s.field] = next
			break
		}
	}
}

// SubscriberCount returns the number of live subscriptions on all fields.
func (o *ServiceObject) SubscriberCount() int {
	return len(o.byID)
}

// Set changes a single field and notifies its subscribers if the value is
// different. It returns ErrFieldType if value has the wrong type for field.
func (o *ServiceObject) Set(field Field, value interface{}) error {
	next := o.data
	if err := next.setValue(field, value); err != nil {
		return err
	}
	if next == o.data {
		return nil
	}
	o.data = next
	o.Changed(field)
	return nil
}

// Update replaces all fields with data, then notifies subscribers of each
// field that changed, in field order.
func (o *ServiceObject) Update(data Service) {
	prev := o.data
	o.data = data
	for f := Field(0); f < numFields; f++ {
		if prev.Value(f) != data.Value(f) {
			o.Changed(f)
		}
	}
}

// Changed notifies subscribers of field with its current value. Subscribers
// added during the notification are not called; subscribers removed during
// it are skipped.
func (o *ServiceObject) Changed(field Field) {
	list := o.subscribers[field]
	if len(list) == 0 {
		return
	}
	value := o.data.Value(field)
	for _, s := range list {
		if !s.active {
			continue
		}
		s.callback(value)
	}
}
