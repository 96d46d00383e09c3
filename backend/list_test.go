package controlpanel

import (
	"fmt"
	"testing"
)

func numberedServices(n int) []Service {
	services := make([]Service, n)
	for i := range services {
		services[i] = Service{Name: fmt.Sprintf("svc%02d", i), IsVM: i%2 == 0}
	}
	return services
}

func shownNames(l *ServiceList) []string {
	var names []string
	for _, p := range l.Panels() {
		if r := p.Record(); r != nil {
			names = append(names, r.Read(FieldName).(string))
		} else {
			names = append(names, "-")
		}
	}
	return names
}

func TestServiceListRecycling(t *testing.T) {
	before := LiveBindings()
	m := NewServiceModel(numberedServices(10)...)
	l := NewServiceList(m, 3)

	if got := fmt.Sprint(shownNames(l)); got != "[svc00 svc01 svc02]" {
		t.Errorf("Unexpected initial window %s", got)
	}

	l.ScrollTo(5)
	if got := fmt.Sprint(shownNames(l)); got != "[svc05 svc06 svc07]" {
		t.Errorf("Unexpected window after scroll %s", got)
	}
	// Records that scrolled out are no longer observed by any panel
	for i := 0; i < 5; i++ {
		if n := m.Row(i).SubscriberCount(); n != 0 {
			t.Errorf("Row %d still has %d subscriptions after scrolling away", i, n)
		}
	}

	// A field change on a visible row reaches the recycled panel
	m.Row(6).Set(FieldStatus, StatusPaused)
	if l.PanelFor(6).Slot(SlotStatusLabel).Text() != "Paused" {
		t.Error("Recycled panel doesn't follow its new record")
	}
	// Second name slot is only set for VMs; svc05 is not one
	if l.PanelFor(5).Slot(SlotName2).Text() != "" {
		t.Errorf("Service row shows a second name %q", l.PanelFor(5).Slot(SlotName2).Text())
	}

	l.ScrollTo(100)
	if l.Offset() != 7 {
		t.Errorf("Scroll not clamped, offset %d", l.Offset())
	}
	l.EnsureVisible(1)
	if l.Offset() != 1 {
		t.Errorf("EnsureVisible(1) gave offset %d", l.Offset())
	}
	l.EnsureVisible(5)
	if l.Offset() != 3 {
		t.Errorf("EnsureVisible(5) gave offset %d", l.Offset())
	}

	m.Reset(numberedServices(2))
	if got := fmt.Sprint(shownNames(l)); got != "[svc00 svc01 -]" {
		t.Errorf("Unexpected window after shrinking %s", got)
	}
	if l.PanelFor(2) != nil {
		t.Error("PanelFor returned a panel past the end of the model")
	}

	m.Reset(nil)
	if LiveBindings() != before {
		t.Errorf("Bindings leaked: %d live, expected %d", LiveBindings(), before)
	}
}

func TestServiceListFollowsInsert(t *testing.T) {
	m := NewServiceModel(Service{Name: "b"}, Service{Name: "c"})
	l := NewServiceList(m, 2)

	m.Set(Service{Name: "a"})
	if got := fmt.Sprint(shownNames(l)); got != "[a b]" {
		t.Errorf("Expected [a b] after insert, got %s", got)
	}
	if m.Lookup("c").SubscriberCount() != 0 {
		t.Error("Row pushed out of the window is still bound")
	}
}
