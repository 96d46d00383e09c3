package controlpanel

import (
	"errors"
	"testing"
)

type testSignals struct {
	NoArgs  func()               `signal:"no-args"`
	Renamed func(string, string) `signal:"renamed" params:"old,new"`
	Level   func(float64)        `signal:"level" params:"value"`

	NotASignal func()
	unexported func() `signal:"hidden"`
}

func TestSignalsDeclaration(t *testing.T) {
	set := &testSignals{}
	s, err := NewSignals(set)
	if err != nil {
		t.Fatalf("NewSignals failed: %s", err)
	}
	t.Logf("Signals: %s", s)

	names := s.Names()
	expect := []string{"level", "no-args", "renamed"}
	if len(names) != len(expect) {
		t.Fatalf("Expected signals %v, got %v", expect, names)
	}
	for i := range expect {
		if names[i] != expect[i] {
			t.Errorf("Expected signals %v, got %v", expect, names)
		}
	}

	if set.NoArgs == nil || set.Renamed == nil || set.Level == nil {
		t.Error("Signal fields not initialized")
	}
	if set.NotASignal != nil {
		t.Error("Untagged field was initialized")
	}
}

func TestSignalsBadDeclaration(t *testing.T) {
	if _, err := NewSignals(testSignals{}); !errors.Is(err, ErrNotSignalSet) {
		t.Errorf("Expected ErrNotSignalSet for a struct value, got %v", err)
	}

	type unnamed struct {
		Moved func(int, int) `signal:"moved" params:"from"`
	}
	if _, err := NewSignals(&unnamed{}); err == nil {
		t.Error("Expected an error for unnamed parameters")
	}

	type returns struct {
		Ask func() bool `signal:"ask"`
	}
	if _, err := NewSignals(&returns{}); err == nil {
		t.Error("Expected an error for a signal with results")
	}
}

func TestSignalsEmit(t *testing.T) {
	set := &testSignals{}
	s, _ := NewSignals(set)

	// No handlers: emitting is still fine
	set.Renamed("a", "b")

	var order []string
	first, err := s.Connect("renamed", func(args ...interface{}) {
		order = append(order, "first:"+args[0].(string)+">"+args[1].(string))
	})
	if err != nil {
		t.Fatalf("Connect failed: %s", err)
	}
	s.Connect("renamed", func(args ...interface{}) { order = append(order, "second") })

	set.Renamed("x", "y")
	if len(order) != 2 || order[0] != "first:x>y" || order[1] != "second" {
		t.Errorf("Unexpected handler calls %v", order)
	}

	if !s.Disconnect(first) || s.Disconnect(first) {
		t.Error("Disconnect should succeed exactly once")
	}
	if s.HandlerCount("renamed") != 1 {
		t.Errorf("Expected 1 handler, have %d", s.HandlerCount("renamed"))
	}

	if err := s.Emit("level", 1); !errors.Is(err, ErrSignalArgs) {
		t.Errorf("Expected ErrSignalArgs for an int level, got %v", err)
	}
	if err := s.Emit("renamed", "only one"); !errors.Is(err, ErrSignalArgs) {
		t.Errorf("Expected ErrSignalArgs for a missing argument, got %v", err)
	}
	if err := s.Emit("missing"); !errors.Is(err, ErrUnknownSignal) {
		t.Errorf("Expected ErrUnknownSignal, got %v", err)
	}
	if _, err := s.Connect("missing", func(...interface{}) {}); !errors.Is(err, ErrUnknownSignal) {
		t.Errorf("Expected ErrUnknownSignal from Connect, got %v", err)
	}
	if err := s.Emit("level", 0.5); err != nil {
		t.Errorf("Emit failed: %s", err)
	}
}
