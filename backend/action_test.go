package controlpanel

import (
	"encoding/json"
	"errors"
	"testing"
)

type recordingSink struct {
	actions []ControlActionEvent
	audio   []AudioEvent
	err     error
}

func (s *recordingSink) SendAction(ev ControlActionEvent) error {
	s.actions = append(s.actions, ev)
	return s.err
}

func (s *recordingSink) SendAudio(ev AudioEvent) error {
	s.audio = append(s.audio, ev)
	return s.err
}

func TestForward(t *testing.T) {
	p := NewServicePanel()
	p.Bind(NewServiceObject(testVM))

	failing := &recordingSink{err: errors.New("controller gone")}
	working := &recordingSink{}
	disconnect := Forward(p, failing, working)

	p.StartClicked()
	p.SpeakerChanged(3)
	p.MicVolumeChanged(0.5)

	for _, s := range []*recordingSink{failing, working} {
		if len(s.actions) != 1 || s.actions[0].Kind != ActionStart || s.actions[0].TargetName != testVM.Name {
			t.Errorf("Unexpected actions %+v", s.actions)
		}
		if len(s.audio) != 2 {
			t.Fatalf("Expected 2 audio events, got %+v", s.audio)
		}
		if s.audio[0] != (AudioEvent{Signal: SignalSpeakerChanged, Index: 3}) {
			t.Errorf("Unexpected speaker event %+v", s.audio[0])
		}
		if s.audio[1] != (AudioEvent{Signal: SignalMicVolumeChanged, Volume: 0.5}) {
			t.Errorf("Unexpected volume event %+v", s.audio[1])
		}
	}

	disconnect()
	p.PauseClicked()
	if len(working.actions) != 1 {
		t.Error("Sink still receives actions after disconnect")
	}
	for _, name := range p.Signals().Names() {
		if n := p.Signals().HandlerCount(name); n != 0 {
			t.Errorf("%s still has %d handlers", name, n)
		}
	}
}

func TestControlActionText(t *testing.T) {
	buf, err := json.Marshal(ControlActionEvent{Kind: ActionShutdown, TargetName: "a"})
	if err != nil {
		t.Fatalf("Marshal failed: %s", err)
	}
	var ev ControlActionEvent
	if err := json.Unmarshal(buf, &ev); err != nil || ev.Kind != ActionShutdown {
		t.Errorf("Round trip of %s gave %+v, %v", buf, ev, err)
	}

	if _, err := json.Marshal(ControlActionEvent{Kind: ControlAction(9)}); err == nil {
		t.Error("Expected an error marshaling an invalid action")
	}
	var a ControlAction
	if err := a.UnmarshalText([]byte("reboot")); err == nil {
		t.Error("Expected an error for an unknown action")
	}
}
