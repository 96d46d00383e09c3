// Package natssink publishes the control actions and audio changes of panels
// to NATS, for controllers that listen on a message bus instead of the
// controller socket.
package natssink

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	controlpanel "github.com/CrimsonAS/controlpanel/backend"
)

// DefaultPrefix is the subject prefix used when none is configured.
const DefaultPrefix = "controlpanel"

// publisher is the part of *nats.Conn used by Publisher.
type publisher interface {
	Publish(subject string, data []byte) error
}

// Publisher is a controlpanel.ActionSink. Actions are published on
// "<prefix>.action.<action>" and audio changes on "<prefix>.audio.<signal>",
// with the event as a JSON payload.
type Publisher struct {
	nc     *nats.Conn
	pub    publisher
	prefix string
}

var _ controlpanel.ActionSink = &Publisher{}

// Connect dials the NATS server at url. Publishing is asynchronous; the
// client reconnects on its own if the server goes away.
func Connect(url, prefix string) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("controlpanel"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	p := newPublisher(nc, prefix)
	p.nc = nc
	return p, nil
}

func newPublisher(pub publisher, prefix string) *Publisher {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Publisher{pub: pub, prefix: prefix}
}

// ActionSubject returns the subject an action is published on.
func (p *Publisher) ActionSubject(action controlpanel.ControlAction) string {
	return p.prefix + ".action." + action.String()
}

// AudioSubject returns the subject an audio signal is published on.
func (p *Publisher) AudioSubject(signal string) string {
	return p.prefix + ".audio." + signal
}

func (p *Publisher) publish(subject string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	if p.nc != nil && p.nc.IsClosed() {
		return fmt.Errorf("publish %s: nats connection closed", subject)
	}
	if err := p.pub.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func (p *Publisher) SendAction(ev controlpanel.ControlActionEvent) error {
	return p.publish(p.ActionSubject(ev.Kind), ev)
}

func (p *Publisher) SendAudio(ev controlpanel.AudioEvent) error {
	return p.publish(p.AudioSubject(ev.Signal), ev)
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}
