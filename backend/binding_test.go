package controlpanel

import "testing"

func TestBindPropertySyncCreate(t *testing.T) {
	obj := NewServiceObject(Service{Name: "a", Status: StatusPaused})
	w := NewPropertySheet("status")
	transform, _ := TransformFor(FieldStatus, PropertyLabel)

	before := LiveBindings()
	b := BindProperty(obj, FieldStatus, w, PropertyLabel, transform)
	if w.Text() != "Paused" {
		t.Errorf("Binding didn't write on create, label is %q", w.Text())
	}
	if LiveBindings() != before+1 {
		t.Errorf("Expected %d live bindings, have %d", before+1, LiveBindings())
	}

	obj.Set(FieldStatus, StatusRunning)
	if w.Text() != "Running" {
		t.Errorf("Binding didn't follow change, label is %q", w.Text())
	}

	b.Unbind()
	b.Unbind()
	if b.Bound() {
		t.Error("Binding still bound after Unbind")
	}
	if LiveBindings() != before {
		t.Errorf("Double unbind released twice: %d live, expected %d", LiveBindings(), before)
	}

	writes := w.Writes()
	obj.Set(FieldStatus, StatusPoweredOff)
	if w.Writes() != writes || w.Text() != "Running" {
		t.Errorf("Unbound binding still writes, label is %q", w.Text())
	}
	if obj.SubscriberCount() != 0 {
		t.Errorf("Unbind left %d subscriptions", obj.SubscriberCount())
	}
}

func TestBindPropertyWithoutTransform(t *testing.T) {
	obj := NewServiceObject(Service{Name: "a", Details: "idle"})
	w := NewPropertySheet("details")
	b := BindProperty(obj, FieldDetails, w, PropertyLabel, nil)
	defer b.Unbind()

	obj.Set(FieldDetails, "4 vCPU")
	if w.Text() != "4 vCPU" {
		t.Errorf("Expected raw value, got %q", w.Text())
	}
}

func TestBindingSetRelease(t *testing.T) {
	obj := NewServiceObject(Service{Name: "a"})
	var set BindingSet

	// Releasing an empty set is fine
	set.Release()

	for i := 0; i < 3; i++ {
		set.Add(BindProperty(obj, FieldName, NewPropertySheet("n"), PropertyLabel, nil))
	}
	if set.Len() != 3 {
		t.Fatalf("Expected 3 bindings, have %d", set.Len())
	}
	bindings := set.Bindings()

	set.Release()
	if set.Len() != 0 {
		t.Errorf("Set not empty after release: %d", set.Len())
	}
	for i, b := range bindings {
		if b.Bound() {
			t.Errorf("Binding %d still bound after release", i)
		}
	}
	if obj.SubscriberCount() != 0 {
		t.Errorf("Release left %d subscriptions", obj.SubscriberCount())
	}
}
