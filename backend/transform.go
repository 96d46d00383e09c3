package controlpanel

// Icon resources used by the catalog.
const (
	IconStatusGreen  IconRef = "/org/gnome/controlpanelgui/icons/ellipse_green.svg"
	IconStatusRed    IconRef = "/org/gnome/controlpanelgui/icons/ellipse_red.svg"
	IconStatusYellow IconRef = "/org/gnome/controlpanelgui/icons/ellipse_yellow.svg"

	IconSecure        IconRef = "/org/gnome/controlpanelgui/icons/security_well.svg"
	IconSecureWarning IconRef = "/org/gnome/controlpanelgui/icons/security_warning.svg"
	IconSecureAlert   IconRef = "/org/gnome/controlpanelgui/icons/security_alert.svg"
)

// Transform maps a raw field value to the value written to a widget
// property. Transforms are pure and total: unexpected input produces a
// default presentation, never a failure.
type Transform func(raw interface{}) interface{}

func StatusText(s Status) string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusPoweredOff:
		return "Powered off"
	case StatusPaused:
		return "Paused"
	default:
		return "Powered off"
	}
}

func StatusIcon(s Status) IconRef {
	switch s {
	case StatusRunning:
		return IconStatusGreen
	case StatusPoweredOff:
		return IconStatusRed
	case StatusPaused:
		return IconStatusYellow
	default:
		return IconStatusRed
	}
}

func TrustIcon(t TrustLevel) IconRef {
	switch t {
	case TrustSecure:
		return IconSecure
	case TrustWarning:
		return IconSecureWarning
	case TrustAlert:
		return IconSecureAlert
	default:
		return IconSecure
	}
}

func TrustText(t TrustLevel) string {
	switch t {
	case TrustSecure:
		return "Secure!"
	case TrustWarning:
		return "Security warning!"
	case TrustAlert:
		return "Security alert!"
	default:
		return "Secure!"
	}
}

// ControlsTitle is the heading of the control section for a VM or a service.
func ControlsTitle(isVM bool) string {
	if isVM {
		return "VM Controls"
	}
	return "Service Controls"
}

// AudioVisible reports whether the audio section is shown. Services have no
// audio devices.
func AudioVisible(isVM bool) bool {
	return isVM
}

// outOfRange is a code no enumeration uses. Raw values of the wrong type map
// to it so they fall into the default branch.
const outOfRange = 0xff

func rawCode(raw interface{}) uint8 {
	switch v := raw.(type) {
	case Status:
		return uint8(v)
	case TrustLevel:
		return uint8(v)
	case uint8:
		return v
	case int:
		if v >= 0 && v < outOfRange {
			return uint8(v)
		}
	case uint32:
		if v < outOfRange {
			return uint8(v)
		}
	}
	return outOfRange
}

func rawBool(raw interface{}) bool {
	b, _ := raw.(bool)
	return b
}

func rawText(raw interface{}) string {
	s, _ := raw.(string)
	return s
}

type transformKey struct {
	field    Field
	property Property
}

var catalog = map[transformKey]Transform{
	{FieldName, PropertyLabel}:        func(raw interface{}) interface{} { return rawText(raw) },
	{FieldDisplayName, PropertyLabel}: func(raw interface{}) interface{} { return rawText(raw) },
	{FieldDetails, PropertyLabel}:     func(raw interface{}) interface{} { return rawText(raw) },

	{FieldStatus, PropertyLabel}:    func(raw interface{}) interface{} { return StatusText(Status(rawCode(raw))) },
	{FieldStatus, PropertyResource}: func(raw interface{}) interface{} { return StatusIcon(Status(rawCode(raw))) },

	{FieldTrustLevel, PropertyResource}: func(raw interface{}) interface{} { return TrustIcon(TrustLevel(rawCode(raw))) },
	{FieldTrustLevel, PropertyLabel}:    func(raw interface{}) interface{} { return TrustText(TrustLevel(rawCode(raw))) },

	{FieldIsVM, PropertyLabel}:   func(raw interface{}) interface{} { return ControlsTitle(rawBool(raw)) },
	{FieldIsVM, PropertyVisible}: func(raw interface{}) interface{} { return AudioVisible(rawBool(raw)) },
}

// TransformFor returns the catalog transform for binding field to property,
// and false if the catalog has no entry for the pair.
func TransformFor(field Field, property Property) (Transform, bool) {
	t, ok := catalog[transformKey{field, property}]
	return t, ok
}
