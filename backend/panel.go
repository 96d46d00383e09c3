package controlpanel

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Bindable is implemented by panels that display one record at a time.
//
// Bind always releases the bindings of the previous record first, including
// when it is called again with the same record. Unbind releases all bindings
// and is a no-op on a panel that isn't bound.
type Bindable interface {
	Bind(record Record)
	Unbind()
}

// Slot names a widget of a ServicePanel.
type Slot int

const (
	// SlotName1 shows the display name of a VM, or the name of a service.
	SlotName1 Slot = iota
	// SlotName2 shows the full name of a VM, and is empty for services.
	SlotName2
	SlotStatusLabel
	SlotStatusIcon
	SlotDetails
	SlotSecurityIcon
	SlotSecurityLabel
	SlotControlLabel
	SlotAudioSettings

	numSlots
)

var slotNames = [numSlots]string{
	"name-slot-1",
	"name-slot-2",
	"status-label",
	"status-icon",
	"details-label",
	"security-icon",
	"security-label",
	"control-label",
	"audio-settings",
}

func (s Slot) String() string {
	if s < 0 || s >= numSlots {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return slotNames[s]
}

// slotBinding declares that field is displayed by property of a slot, using
// the catalog transform for the pair.
type slotBinding struct {
	field    Field
	slot     Slot
	property Property
}

var (
	vmNameBindings = []slotBinding{
		{FieldDisplayName, SlotName1, PropertyLabel},
		{FieldName, SlotName2, PropertyLabel},
	}
	serviceNameBindings = []slotBinding{
		{FieldName, SlotName1, PropertyLabel},
	}
	servicePanelBindings = []slotBinding{
		{FieldStatus, SlotStatusLabel, PropertyLabel},
		{FieldStatus, SlotStatusIcon, PropertyResource},
		{FieldDetails, SlotDetails, PropertyLabel},
		{FieldTrustLevel, SlotSecurityIcon, PropertyResource},
		{FieldTrustLevel, SlotSecurityLabel, PropertyLabel},
		{FieldIsVM, SlotControlLabel, PropertyLabel},
		{FieldIsVM, SlotAudioSettings, PropertyVisible},
	}
)

// ServicePanelSignals declares the signals of a ServicePanel.
type ServicePanelSignals struct {
	ControlAction        func(ControlAction, string, string) `signal:"vm-control-action" params:"action,name,displayName"`
	MicChanged           func(uint32)                        `signal:"vm-mic-changed" params:"index"`
	SpeakerChanged       func(uint32)                        `signal:"vm-speaker-changed" params:"index"`
	MicVolumeChanged     func(float64)                       `signal:"vm-mic-volume-changed" params:"volume"`
	SpeakerVolumeChanged func(float64)                       `signal:"vm-speaker-volume-changed" params:"volume"`
}

// AudioSettings is the state of a panel's audio controls.
type AudioSettings struct {
	MicIndex      uint32
	SpeakerIndex  uint32
	MicVolume     float64
	SpeakerVolume float64

	micMuted, speakerMuted float64
}

func defaultAudio() AudioSettings {
	return AudioSettings{
		MicVolume:     1,
		SpeakerVolume: 1,
	}
}

// ServicePanel displays one VM or service record and turns presses on its
// controls into signals. It is the unit a list recycles between rows.
type ServicePanel struct {
	slots    [numSlots]*PropertySheet
	menu     *PropertySheet
	audio    AudioSettings
	record   Record
	bindings BindingSet

	emit    ServicePanelSignals
	signals *Signals
}

var _ Bindable = &ServicePanel{}

func NewServicePanel() *ServicePanel {
	p := &ServicePanel{
		menu:  NewPropertySheet("popover-menu"),
		audio: defaultAudio(),
	}
	for i := range p.slots {
		p.slots[i] = NewPropertySheet(Slot(i).String())
	}
	p.menu.Write(PropertyVisible, false)

	signals, err := NewSignals(&p.emit)
	if err != nil {
		// The declaration is static; this only fails if it is edited wrongly
		panic(fmt.Sprintf("controlpanel: invalid panel signals: %s", err))
	}
	p.signals = signals
	return p
}

// Slot returns the widget for a slot.
func (p *ServicePanel) Slot(s Slot) *PropertySheet {
	return p.slots[s]
}

// Record returns the bound record, or nil.
func (p *ServicePanel) Record() Record {
	return p.record
}

// Bindings returns the live bindings of the panel in creation order.
func (p *ServicePanel) Bindings() []*Binding {
	return p.bindings.Bindings()
}

func (p *ServicePanel) Signals() *Signals {
	return p.signals
}

// Bind displays record. Whether the record is a VM is read once here and
// decides which name slots are bound.
func (p *ServicePanel) Bind(record Record) {
	p.Unbind()
	if record == nil {
		return
	}
	p.record = record

	isVM, _ := record.Read(FieldIsVM).(bool)
	names := serviceNameBindings
	if isVM {
		names = vmNameBindings
	}
	for _, table := range [][]slotBinding{names, servicePanelBindings} {
		for _, sb := range table {
			transform, _ := TransformFor(sb.field, sb.property)
			p.bindings.Add(BindProperty(record, sb.field, p.slots[sb.slot], sb.property, transform))
		}
	}
}

// Unbind releases every binding and resets the state that belongs to one
// record: the second name slot, the action popover and the audio controls.
func (p *ServicePanel) Unbind() {
	p.bindings.Release()
	p.record = nil
	p.slots[SlotName2].SetText("")
	p.popdown()
	p.audio = defaultAudio()
}

// OpenMenu shows the action popover.
func (p *ServicePanel) OpenMenu() {
	p.menu.Write(PropertyVisible, true)
}

func (p *ServicePanel) MenuOpen() bool {
	return p.menu.Visible()
}

func (p *ServicePanel) popdown() {
	if p.menu.Visible() {
		p.menu.Write(PropertyVisible, false)
	}
}

func (p *ServicePanel) controlAction(action ControlAction) {
	defer p.popdown()
	if p.record == nil {
		log.Debug().Stringer("action", action).Msg("control action on unbound panel ignored")
		return
	}
	name, _ := p.record.Read(FieldName).(string)
	displayName, _ := p.record.Read(FieldDisplayName).(string)
	p.emit.ControlAction(action, name, displayName)
}

// StartClicked, ShutdownClicked and PauseClicked emit a control action for the
// bound record, then close the action popover.
func (p *ServicePanel) StartClicked() {
	p.controlAction(ActionStart)
}

func (p *ServicePanel) ShutdownClicked() {
	p.controlAction(ActionShutdown)
}

func (p *ServicePanel) PauseClicked() {
	p.controlAction(ActionPause)
}

// Audio returns the current state of the audio controls.
func (p *ServicePanel) Audio() AudioSettings {
	return p.audio
}

func (p *ServicePanel) MicChanged(index uint32) {
	log.Debug().Uint32("index", index).Msg("mic changed")
	p.audio.MicIndex = index
	p.emit.MicChanged(index)
}

func (p *ServicePanel) SpeakerChanged(index uint32) {
	log.Debug().Uint32("index", index).Msg("speaker changed")
	p.audio.SpeakerIndex = index
	p.emit.SpeakerChanged(index)
}

func clampVolume(v float64) float64 {
	if v < 0 || v != v {
		return 0
	} else if v > 1 {
		return 1
	}
	return v
}

// MicVolumeChanged sets the microphone level, clamped to [0,1].
func (p *ServicePanel) MicVolumeChanged(volume float64) {
	volume = clampVolume(volume)
	log.Debug().Float64("volume", volume).Msg("mic volume")
	p.audio.MicVolume = volume
	p.audio.micMuted = 0
	p.emit.MicVolumeChanged(volume)
}

// SpeakerVolumeChanged sets the speaker level, clamped to [0,1].
func (p *ServicePanel) SpeakerVolumeChanged(volume float64) {
	volume = clampVolume(volume)
	log.Debug().Float64("volume", volume).Msg("speaker volume")
	p.audio.SpeakerVolume = volume
	p.audio.speakerMuted = 0
	p.emit.SpeakerVolumeChanged(volume)
}

// ToggleMicMute sets the microphone level to zero, or back to the level it had
// before muting.
func (p *ServicePanel) ToggleMicMute() {
	if p.audio.micMuted > 0 {
		p.MicVolumeChanged(p.audio.micMuted)
		return
	}
	prev := p.audio.MicVolume
	p.MicVolumeChanged(0)
	p.audio.micMuted = prev
}

func (p *ServicePanel) ToggleSpeakerMute() {
	if p.audio.speakerMuted > 0 {
		p.SpeakerVolumeChanged(p.audio.speakerMuted)
		return
	}
	prev := p.audio.SpeakerVolume
	p.SpeakerVolumeChanged(0)
	p.audio.speakerMuted = prev
}

// ConnectControlAction calls fn for every control action the panel emits.
func (p *ServicePanel) ConnectControlAction(fn func(ControlActionEvent)) HandlerID {
	id, _ := p.signals.Connect(SignalControlAction, func(args ...interface{}) {
		fn(ControlActionEvent{
			Kind:              args[0].(ControlAction),
			TargetName:        args[1].(string),
			TargetDisplayName: args[2].(string),
		})
	})
	return id
}

func (p *ServicePanel) ConnectMicChanged(fn func(index uint32)) HandlerID {
	id, _ := p.signals.Connect(SignalMicChanged, func(args ...interface{}) {
		fn(args[0].(uint32))
	})
	return id
}

func (p *ServicePanel) ConnectSpeakerChanged(fn func(index uint32)) HandlerID {
	id, _ := p.signals.Connect(SignalSpeakerChanged, func(args ...interface{}) {
		fn(args[0].(uint32))
	})
	return id
}

func (p *ServicePanel) ConnectMicVolumeChanged(fn func(volume float64)) HandlerID {
	id, _ := p.signals.Connect(SignalMicVolumeChanged, func(args ...interface{}) {
		fn(args[0].(float64))
	})
	return id
}

func (p *ServicePanel) ConnectSpeakerVolumeChanged(fn func(volume float64)) HandlerID {
	id, _ := p.signals.Connect(SignalSpeakerVolumeChanged, func(args ...interface{}) {
		fn(args[0].(float64))
	})
	return id
}
