package controlpanel

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrFieldType    = errors.New("wrong value type for field")
)

// Field names one of the fixed set of record fields that can be bound.
type Field int

const (
	FieldName Field = iota
	FieldDisplayName
	FieldStatus
	FieldDetails
	FieldTrustLevel
	FieldIsVM

	numFields
)

var fieldNames = [numFields]string{
	"name",
	"display-name",
	"status",
	"details",
	"trust-level",
	"is-vm",
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField returns the Field for a field name as used in String.
func ParseField(name string) (Field, error) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Status is the run state of a VM or service. The numeric values are the
// codes used by the controller.
type Status uint8

const (
	StatusRunning Status = iota
	StatusPoweredOff
	StatusPaused
)

var statusNames = []string{"running", "powered-off", "paused"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range statusNames {
		if n == name {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// UnmarshalJSON accepts either a status name or a numeric code. Codes and
// names that don't map to a status decode to an out-of-range code, which
// displays as the default.
func (s *Status) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	code, err := decodeCode(data, func(name string) (uint8, error) {
		var v Status
		err := v.UnmarshalText([]byte(name))
		return uint8(v), err
	})
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	*s = Status(code)
	return nil
}

// TrustLevel is the security assessment of a VM or service.
type TrustLevel uint8

const (
	TrustSecure TrustLevel = iota
	TrustWarning
	TrustAlert
)

var trustNames = []string{"secure", "warning", "alert"}

func (t TrustLevel) String() string {
	if int(t) < len(trustNames) {
		return trustNames[t]
	}
	return fmt.Sprintf("trust(%d)", uint8(t))
}

func (t TrustLevel) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TrustLevel) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range trustNames {
		if n == name {
			*t = TrustLevel(i)
			return nil
		}
	}
	return fmt.Errorf("unknown trust level %q", text)
}

// UnmarshalJSON accepts either a trust level name or a numeric code, like
// Status.
func (t *TrustLevel) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	code, err := decodeCode(data, func(name string) (uint8, error) {
		var v TrustLevel
		err := v.UnmarshalText([]byte(name))
		return uint8(v), err
	})
	if err != nil {
		return fmt.Errorf("trust level: %w", err)
	}
	*t = TrustLevel(code)
	return nil
}

// decodeCode reads a JSON number or name as a u8 code. Numbers outside 0..255,
// fractions and unknown names become outOfRange; only JSON that is neither a
// number nor a string is an error.
func decodeCode(data []byte, parse func(name string) (uint8, error)) (uint8, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return 0, err
		}
		code, err := parse(name)
		if err != nil {
			log.Warn().Str("value", name).Msg("unknown code name, using default")
			return outOfRange, nil
		}
		return code, nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return 0, err
	}
	if code, err := num.Int64(); err == nil && code >= 0 && code <= 0xff {
		return uint8(code), nil
	}
	return outOfRange, nil
}

// Subscription identifies a field change callback registered on a Record.
// The zero Subscription is never returned by Subscribe.
type Subscription uint64

// Record is the read side of a VM or service. Panels only read fields and
// subscribe to their changes; mutation belongs to whoever owns the record.
//
// Change callbacks are invoked on the goroutine that changed the field, after
// the new value is readable. A callback that was unsubscribed is never invoked
// again, even if the change that is being dispatched happened before.
type Record interface {
	Identifier() string
	Read(field Field) interface{}
	Subscribe(field Field, callback func(value interface{})) Subscription
	Unsubscribe(sub Subscription)
}

// Service is a plain snapshot of every field of a record.
type Service struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Status      Status     `json:"status"`
	Details     string     `json:"details"`
	TrustLevel  TrustLevel `json:"trustLevel"`
	IsVM        bool       `json:"isVm"`
}

// Value returns the value of field in s, or nil for an unknown field.
func (s Service) Value(field Field) interface{} {
	switch field {
	case FieldName:
		return s.Name
	case FieldDisplayName:
		return s.DisplayName
	case FieldStatus:
		return s.Status
	case FieldDetails:
		return s.Details
	case FieldTrustLevel:
		return s.TrustLevel
	case FieldIsVM:
		return s.IsVM
	default:
		return nil
	}
}

// setValue assigns value to field, returning ErrFieldType if the dynamic type
// of value doesn't match the field. s is unchanged on error.
func (s *Service) setValue(field Field, value interface{}) error {
	if field < 0 || field >= numFields {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	ok := true
	switch v := value.(type) {
	case string:
		switch field {
		case FieldName:
			s.Name = v
		case FieldDisplayName:
			s.DisplayName = v
		case FieldDetails:
			s.Details = v
		default:
			ok = false
		}
	case Status:
		ok = field == FieldStatus
		if ok {
			s.Status = v
		}
	case TrustLevel:
		ok = field == FieldTrustLevel
		if ok {
			s.TrustLevel = v
		}
	case bool:
		ok = field == FieldIsVM
		if ok {
			s.IsVM = v
		}
	default:
		ok = false
	}

	if !ok {
		return fmt.Errorf("%w %s: %T", ErrFieldType, field, value)
	}
	return nil
}
