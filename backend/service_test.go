package controlpanel

import (
	"errors"
	"testing"
)

func TestServiceObjectIdentifier(t *testing.T) {
	a := NewServiceObject(Service{Name: "a"})
	b := NewServiceObject(Service{Name: "a"})
	if a.Identifier() == "" {
		t.Error("Identifier is blank")
	}
	if a.Identifier() == b.Identifier() {
		t.Error("Two records share an identifier")
	}
}

func TestServiceObjectSubscribe(t *testing.T) {
	obj := NewServiceObject(Service{Name: "net-vm", Status: StatusRunning})

	var got []interface{}
	sub := obj.Subscribe(FieldStatus, func(v interface{}) { got = append(got, v) })
	if sub == 0 {
		t.Fatal("Subscribe returned the zero subscription")
	}

	if err := obj.Set(FieldStatus, StatusPaused); err != nil {
		t.Fatalf("Set failed: %s", err)
	}
	// Same value; no notification
	obj.Set(FieldStatus, StatusPaused)
	// Other field; no notification
	obj.Set(FieldDetails, "busy")

	if len(got) != 1 || got[0] != StatusPaused {
		t.Errorf("Expected one notification with paused, got %v", got)
	}

	obj.Unsubscribe(sub)
	obj.Unsubscribe(sub)
	obj.Set(FieldStatus, StatusRunning)
	if len(got) != 1 {
		t.Errorf("Notified after unsubscribe: %v", got)
	}
	if obj.SubscriberCount() != 0 {
		t.Errorf("Expected no subscribers, have %d", obj.SubscriberCount())
	}

	if err := obj.Set(FieldStatus, "on"); !errors.Is(err, ErrFieldType) {
		t.Errorf("Expected ErrFieldType, got %v", err)
	}
}

func TestServiceObjectUnsubscribeDuringDispatch(t *testing.T) {
	obj := NewServiceObject(Service{Name: "a"})

	var second Subscription
	secondCalled := false
	obj.Subscribe(FieldDetails, func(interface{}) { obj.Unsubscribe(second) })
	second = obj.Subscribe(FieldDetails, func(interface{}) { secondCalled = true })

	obj.Set(FieldDetails, "changed")
	if secondCalled {
		t.Error("Subscriber removed during dispatch was still called")
	}
}

func TestServiceObjectUpdate(t *testing.T) {
	obj := NewServiceObject(Service{Name: "a", DisplayName: "A", Status: StatusRunning})

	changed := make(map[Field]int)
	for f := Field(0); f < numFields; f++ {
		field := f
		obj.Subscribe(field, func(interface{}) { changed[field]++ })
	}

	obj.Update(Service{Name: "a", DisplayName: "A", Status: StatusPaused, TrustLevel: TrustAlert})
	if len(changed) != 2 || changed[FieldStatus] != 1 || changed[FieldTrustLevel] != 1 {
		t.Errorf("Expected status and trust-level notifications, got %v", changed)
	}
	if obj.Data().Status != StatusPaused {
		t.Errorf("Update didn't apply: %+v", obj.Data())
	}
}
