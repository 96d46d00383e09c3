package controlpanel

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

var (
	ErrUnknownSignal = errors.New("unknown signal")
	ErrSignalArgs    = errors.New("signal arguments do not match declaration")
	ErrNotSignalSet  = errors.New("signal set must be a pointer to a struct")
)

// HandlerID identifies a handler connected to a Signals. The zero value is
// never returned by Connect.
type HandlerID uint64

// signalInfo describes one declared signal, parsed from a func field.
type signalInfo struct {
	Name   string   `json:"name"`
	Params []string `json:"params"`

	types []reflect.Type
}

type signalHandler struct {
	id     HandlerID
	signal string
	fn     func(args ...interface{})
}

// Signals is a registry of named, typed signals and the handlers connected
// to them. Emitting a signal calls every handler connected to it, in the
// order they were connected, before Emit returns. A signal with no handlers
// is dropped silently.
//
// The set of signals is declared with a struct of func fields. Each field
// needs a `signal` tag with the signal name; fields with parameters also
// need a `params` tag naming every parameter:
//
//  type PanelSignals struct {
//      Closed  func()               `signal:"closed"`
//      Renamed func(string, string) `signal:"renamed" params:"old,new"`
//  }
//
// NewSignals assigns each func field a function that emits the signal, so
// the declaring code emits with ordinary calls.
type Signals struct {
	info     map[string]*signalInfo
	handlers map[string][]*signalHandler
	nextID   HandlerID
}

// NewSignals parses the signal declarations in set, which must be a pointer
// to a struct, and sets its nil func fields to emitters.
func NewSignals(set interface{}) (*Signals, error) {
	v := reflect.ValueOf(set)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, ErrNotSignalSet
	}
	v = v.Elem()

	s := &Signals{
		info:     make(map[string]*signalInfo),
		handlers: make(map[string][]*signalHandler),
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("signal")
		if name == "" || field.PkgPath != "" || field.Type.Kind() != reflect.Func {
			continue
		}
		if field.Type.NumOut() > 0 {
			return nil, fmt.Errorf("signal '%s' must not return values", name)
		}
		if _, exists := s.info[name]; exists {
			return nil, fmt.Errorf("signal '%s' is declared twice", name)
		}

		info := &signalInfo{Name: name}
		var paramNames []string
		if tag := field.Tag.Get("params"); tag != "" {
			paramNames = strings.Split(tag, ",")
		}
		if len(paramNames) != field.Type.NumIn() {
			return nil, fmt.Errorf("signal '%s' has %d parameters, but names %d. All parameters must be named in the `params:` tag.",
				name, field.Type.NumIn(), len(paramNames))
		}
		for p := 0; p < field.Type.NumIn(); p++ {
			inType := field.Type.In(p)
			info.types = append(info.types, inType)
			info.Params = append(info.Params, inType.String()+" "+paramNames[p])
		}
		s.info[name] = info

		fv := v.Field(i)
		if fv.IsNil() {
			signal := name
			fv.Set(reflect.MakeFunc(field.Type, func(args []reflect.Value) []reflect.Value {
				unwrapped := make([]interface{}, 0, len(args))
				for _, a := range args {
					unwrapped = append(unwrapped, a.Interface())
				}
				// Arguments come from a typed call; they can't mismatch
				s.Emit(signal, unwrapped...)
				return nil
			}))
		}
	}

	return s, nil
}

// Names returns the declared signal names, sorted.
func (s *Signals) Names() []string {
	names := make([]string, 0, len(s.info))
	for name := range s.info {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Connect adds a handler for the named signal. Handlers receive the emitted
// arguments with their declared types.
func (s *Signals) Connect(signal string, fn func(args ...interface{})) (HandlerID, error) {
	if _, exists := s.info[signal]; !exists {
		return 0, fmt.Errorf("%w '%s'", ErrUnknownSignal, signal)
	}
	s.nextID++
	h := &signalHandler{id: s.nextID, signal: signal, fn: fn}
	s.handlers[signal] = append(s.handlers[signal], h)
	return h.id, nil
}

// Disconnect removes a handler, and returns false if it wasn't connected.
func (s *Signals) Disconnect(id HandlerID) bool {
	for signal, list := range s.handlers {
		for i, h := range list {
			if h.id != id {
				continue
			}
			next := make([]*signalHandler, 0, len(list)-1)
			next = append(next, list[:i]...)
			s.handlers[signal] = append(next, list[i+1:]...)
			return true
		}
	}
	return false
}

// HandlerCount returns the number of handlers connected to signal.
func (s *Signals) HandlerCount(signal string) int {
	return len(s.handlers[signal])
}

// Emit calls the handlers of signal with args. The number and types of args
// must match the declaration exactly.
func (s *Signals) Emit(signal string, args ...interface{}) error {
	info, exists := s.info[signal]
	if !exists {
		return fmt.Errorf("%w '%s'", ErrUnknownSignal, signal)
	}
	if len(args) != len(info.types) {
		return fmt.Errorf("%w: '%s' takes %d arguments, provided %d", ErrSignalArgs, signal, len(info.types), len(args))
	}
	for i, arg := range args {
		if reflect.TypeOf(arg) != info.types[i] {
			return fmt.Errorf("%w: argument %d to '%s' should be %s, provided %T", ErrSignalArgs, i, signal, info.types[i], arg)
		}
	}

	// Handlers connected or disconnected by a handler take effect on the next emit
	for _, h := range s.handlers[signal] {
		h.fn(args...)
	}
	return nil
}

func (s *Signals) String() string {
	infos := make([]*signalInfo, 0, len(s.info))
	for _, name := range s.Names() {
		infos = append(infos, s.info[name])
	}
	str, _ := json.MarshalIndent(infos, "", "  ")
	return string(str)
}
