package controlpanel

import "testing"

func TestStatusTransforms(t *testing.T) {
	cases := []struct {
		raw  interface{}
		text string
		icon IconRef
	}{
		{StatusRunning, "Running", IconStatusGreen},
		{StatusPoweredOff, "Powered off", IconStatusRed},
		{StatusPaused, "Paused", IconStatusYellow},
		{Status(3), "Powered off", IconStatusRed},
		{Status(255), "Powered off", IconStatusRed},
		{uint8(2), "Paused", IconStatusYellow},
		{-1, "Powered off", IconStatusRed},
		{1000, "Powered off", IconStatusRed},
		{"running", "Powered off", IconStatusRed},
		{nil, "Powered off", IconStatusRed},
	}

	label, _ := TransformFor(FieldStatus, PropertyLabel)
	icon, _ := TransformFor(FieldStatus, PropertyResource)
	for _, c := range cases {
		if got := label(c.raw); got != c.text {
			t.Errorf("status label for %#v: expected %q, got %q", c.raw, c.text, got)
		}
		if got := icon(c.raw); got != c.icon {
			t.Errorf("status icon for %#v: expected %q, got %q", c.raw, c.icon, got)
		}
	}
}

func TestTrustTransforms(t *testing.T) {
	cases := []struct {
		raw  interface{}
		text string
		icon IconRef
	}{
		{TrustSecure, "Secure!", IconSecure},
		{TrustWarning, "Security warning!", IconSecureWarning},
		{TrustAlert, "Security alert!", IconSecureAlert},
		{TrustLevel(7), "Secure!", IconSecure},
		{int(1), "Security warning!", IconSecureWarning},
		{3.5, "Secure!", IconSecure},
	}

	label, _ := TransformFor(FieldTrustLevel, PropertyLabel)
	icon, _ := TransformFor(FieldTrustLevel, PropertyResource)
	for _, c := range cases {
		if got := label(c.raw); got != c.text {
			t.Errorf("trust label for %#v: expected %q, got %q", c.raw, c.text, got)
		}
		if got := icon(c.raw); got != c.icon {
			t.Errorf("trust icon for %#v: expected %q, got %q", c.raw, c.icon, got)
		}
	}
}

func TestIsVMTransforms(t *testing.T) {
	title, _ := TransformFor(FieldIsVM, PropertyLabel)
	visible, _ := TransformFor(FieldIsVM, PropertyVisible)

	if title(true) != "VM Controls" || title(false) != "Service Controls" {
		t.Errorf("Unexpected control titles %q, %q", title(true), title(false))
	}
	if visible(true) != true || visible(false) != false {
		t.Error("Audio section visibility doesn't follow is-vm")
	}
	if title("yes") != "Service Controls" || visible(nil) != false {
		t.Error("Non-bool is-vm should be treated as a service")
	}
}

func TestTransformForUnknownPair(t *testing.T) {
	if _, ok := TransformFor(FieldDetails, PropertyResource); ok {
		t.Error("Expected no transform for details -> resource")
	}
}
