package controlpanel

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Signal names emitted by ServicePanel.
const (
	SignalControlAction        = "vm-control-action"
	SignalMicChanged           = "vm-mic-changed"
	SignalSpeakerChanged       = "vm-speaker-changed"
	SignalMicVolumeChanged     = "vm-mic-volume-changed"
	SignalSpeakerVolumeChanged = "vm-speaker-volume-changed"
)

// ControlAction is the kind of a user's request to change a VM or service.
type ControlAction int

const (
	ActionStart ControlAction = iota
	ActionShutdown
	ActionPause
)

var actionNames = []string{"start", "shutdown", "pause"}

func (a ControlAction) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

func (a ControlAction) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(actionNames) {
		return nil, fmt.Errorf("invalid control action %d", int(a))
	}
	return []byte(actionNames[a]), nil
}

func (a *ControlAction) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range actionNames {
		if n == name {
			*a = ControlAction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown control action %q", text)
}

// ControlActionEvent is one user request to start, shut down or pause a VM or
// service. It is emitted once per gesture and has no state after delivery.
type ControlActionEvent struct {
	Kind              ControlAction `json:"action"`
	TargetName        string        `json:"name"`
	TargetDisplayName string        `json:"displayName"`
}

// AudioEvent is a change made with the audio controls of a VM. Index is set
// for the device signals and Volume for the volume signals.
type AudioEvent struct {
	Signal string  `json:"signal"`
	Index  uint32  `json:"index"`
	Volume float64 `json:"volume"`
}

// ActionSink receives the intents emitted by panels, typically to pass them
// on to whatever actually controls VMs and services.
type ActionSink interface {
	SendAction(ev ControlActionEvent) error
	SendAudio(ev AudioEvent) error
}

// Forward connects the control and audio signals of panel to every sink.
// Delivery is fire-and-forget: sink errors are logged and never reach the
// panel. The returned function disconnects the handlers again.
func Forward(panel *ServicePanel, sinks ...ActionSink) func() {
	sendAudio := func(ev AudioEvent) {
		for _, sink := range sinks {
			if err := sink.SendAudio(ev); err != nil {
				log.Warn().Err(err).Str("signal", ev.Signal).Msg("audio event not delivered")
			}
		}
	}

	ids := []HandlerID{
		panel.ConnectControlAction(func(ev ControlActionEvent) {
			for _, sink := range sinks {
				if err := sink.SendAction(ev); err != nil {
					log.Warn().Err(err).Stringer("action", ev.Kind).Str("service", ev.TargetName).
						Msg("control action not delivered")
				}
			}
		}),
		panel.ConnectMicChanged(func(index uint32) {
			sendAudio(AudioEvent{Signal: SignalMicChanged, Index: index})
		}),
		panel.ConnectSpeakerChanged(func(index uint32) {
			sendAudio(AudioEvent{Signal: SignalSpeakerChanged, Index: index})
		}),
		panel.ConnectMicVolumeChanged(func(volume float64) {
			sendAudio(AudioEvent{Signal: SignalMicVolumeChanged, Volume: volume})
		}),
		panel.ConnectSpeakerVolumeChanged(func(volume float64) {
			sendAudio(AudioEvent{Signal: SignalSpeakerVolumeChanged, Volume: volume})
		}),
	}

	return func() {
		for _, id := range ids {
			panel.Signals().Disconnect(id)
		}
	}
}
