package natssink

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	controlpanel "github.com/CrimsonAS/controlpanel/backend"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs []published
	err  error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject, data})
	return nil
}

func TestPublisherAction(t *testing.T) {
	conn := &fakeConn{}
	p := newPublisher(conn, "ghaf.panel.")

	err := p.SendAction(controlpanel.ControlActionEvent{
		Kind:              controlpanel.ActionStart,
		TargetName:        "svc1",
		TargetDisplayName: "Service One",
	})
	require.NoError(t, err)
	require.Len(t, conn.msgs, 1)
	require.Equal(t, "ghaf.panel.action.start", conn.msgs[0].subject)

	var ev map[string]interface{}
	require.NoError(t, json.Unmarshal(conn.msgs[0].data, &ev))
	require.Equal(t, "start", ev["action"])
	require.Equal(t, "svc1", ev["name"])
	require.Equal(t, "Service One", ev["displayName"])
}

func TestPublisherAudio(t *testing.T) {
	conn := &fakeConn{}
	p := newPublisher(conn, "")

	require.NoError(t, p.SendAudio(controlpanel.AudioEvent{Signal: controlpanel.SignalSpeakerVolumeChanged, Volume: 0.75}))
	require.Len(t, conn.msgs, 1)
	require.Equal(t, "controlpanel.audio.vm-speaker-volume-changed", conn.msgs[0].subject)

	var ev controlpanel.AudioEvent
	require.NoError(t, json.Unmarshal(conn.msgs[0].data, &ev))
	require.Equal(t, 0.75, ev.Volume)
}

func TestPublisherError(t *testing.T) {
	conn := &fakeConn{err: errors.New("no responders")}
	p := newPublisher(conn, "x")

	err := p.SendAction(controlpanel.ControlActionEvent{Kind: controlpanel.ActionPause})
	require.ErrorIs(t, err, conn.err)

	err = p.SendAction(controlpanel.ControlActionEvent{Kind: controlpanel.ControlAction(42)})
	require.Error(t, err)
}
