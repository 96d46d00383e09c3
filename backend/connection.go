package controlpanel

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

// ProtocolVersion is sent to the controller when a connection starts.
const ProtocolVersion = 1

// maxMessageSize bounds a single frame from the controller.
const maxMessageSize = 1 << 20

// ErrClosed is returned when sending on a connection after it failed or was
// closed.
var ErrClosed = errors.New("connection closed")

// Connection links a ServiceModel to the controller that owns the real VMs
// and services. The controller sends the state of services, which is applied
// to the model; control actions and audio changes from panels are sent back
// to it.
//
// Each message is framed as the decimal size of a JSON object, a space, the
// object and a newline:
//
//  44 {"command":"SERVICE_REMOVE","name":"net-vm"}
//
// The controller sends SERVICE_SET with a "service" object, SERVICE_REMOVE
// with a "name", and SERVICE_RESET with a "services" array. The connection
// sends VERSION when it starts, then ACTION and AUDIO messages.
//
// Messages are read on an internal goroutine, but the model is only changed
// during calls to Process. A frontend calls Process from its event loop when
// ProcessSignal fires, which keeps all record changes on that loop.
type Connection struct {
	model *ServiceModel

	in  io.ReadCloser
	out io.WriteCloser

	writeMu sync.Mutex
	errMu   sync.Mutex
	err     error

	started       bool
	processSignal chan struct{}
	queue         chan []byte
	// done is closed when err is first set
	done chan struct{}
}

var _ ActionSink = &Connection{}

// NewConnection creates a connection over a stream, such as a unix socket to
// the controller. Messages are not read until Run, Process or ProcessSignal
// is first called.
func NewConnection(data io.ReadWriteCloser, model *ServiceModel) *Connection {
	return NewConnectionSplit(data, data, model)
}

// NewConnectionSplit is equivalent to NewConnection, except that it uses
// separate streams for reading and writing, such as a pair of pipes.
func NewConnectionSplit(in io.ReadCloser, out io.WriteCloser, model *ServiceModel) *Connection {
	return &Connection{
		model:         model,
		in:            in,
		out:           out,
		processSignal: make(chan struct{}, 2),
		queue:         make(chan []byte, 128),
		done:          make(chan struct{}),
	}
}

type messageBase struct {
	Command string `json:"command"`
}

type serviceSetMessage struct {
	messageBase
	Service *Service `json:"service"`
}

type serviceRemoveMessage struct {
	messageBase
	Name string `json:"name"`
}

type serviceResetMessage struct {
	messageBase
	Services []Service `json:"services"`
}

// Err returns the error that ended the connection, if any.
func (c *Connection) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Connection) fatal(fmsg string, p ...interface{}) {
	err := fmt.Errorf(fmsg, p...)
	log.Error().Err(err).Msg("controller connection failed")

	c.errMu.Lock()
	first := c.err == nil
	if first {
		c.err = err
		close(c.done)
	}
	c.errMu.Unlock()

	if first {
		c.in.Close()
		c.out.Close()
	}
}

// Close ends the connection. Process and Run return ErrClosed afterwards.
func (c *Connection) Close() error {
	c.errMu.Lock()
	first := c.err == nil
	if first {
		c.err = ErrClosed
		close(c.done)
	}
	c.errMu.Unlock()

	if !first {
		return nil
	}
	inErr := c.in.Close()
	if err := c.out.Close(); err != nil {
		return err
	}
	return inErr
}

func (c *Connection) sendMessage(msg interface{}) error {
	if err := c.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	buf, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("message encoding failed: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := fmt.Fprintf(c.out, "%d %s\n", len(buf), buf); err != nil {
		c.fatal("write error: %s", err)
		return err
	}
	return nil
}

// SendAction sends a control action to the controller.
func (c *Connection) SendAction(ev ControlActionEvent) error {
	return c.sendMessage(struct {
		messageBase
		ControlActionEvent
	}{messageBase{"ACTION"}, ev})
}

// SendAudio sends an audio control change to the controller.
func (c *Connection) SendAudio(ev AudioEvent) error {
	return c.sendMessage(struct {
		messageBase
		AudioEvent
	}{messageBase{"AUDIO"}, ev})
}

// handle runs in an internal goroutine to read from 'in'. Messages are posted
// to the queue and processSignal is triggered.
func (c *Connection) handle() {
	defer close(c.processSignal)
	defer close(c.queue)

	if err := c.sendMessage(struct {
		messageBase
		Version int `json:"version"`
	}{messageBase{"VERSION"}, ProtocolVersion}); err != nil {
		return
	}

	rd := bufio.NewReader(c.in)
	for c.Err() == nil {
		sizeStr, err := rd.ReadString(' ')
		if err != nil {
			if c.Err() == nil {
				c.fatal("read error: %s", err)
			}
			return
		} else if len(sizeStr) < 2 {
			c.fatal("read invalid message: invalid size")
			return
		}

		byteCnt, _ := strconv.ParseInt(sizeStr[:len(sizeStr)-1], 10, 32)
		if byteCnt < 1 {
			c.fatal("read invalid message: size too short")
			return
		} else if byteCnt > maxMessageSize {
			c.fatal("read invalid message: size %d too large", byteCnt)
			return
		}

		blob := make([]byte, byteCnt)
		if _, err := io.ReadFull(rd, blob); err != nil {
			c.fatal("read error: %s", err)
			return
		}

		if nl, err := rd.ReadByte(); err != nil {
			c.fatal("read error: %s", err)
			return
		} else if nl != '\n' {
			c.fatal("read invalid message: expected terminating newline, read %c", nl)
			return
		}

		// A full queue blocks until Process catches up or the connection ends
		select {
		case c.queue <- blob:
		case <-c.done:
			return
		}
		select {
		case c.processSignal <- struct{}{}:
		default:
			// A signal is already pending; Process drains the whole queue
		}
	}
}

func (c *Connection) ensureHandler() {
	if !c.started {
		c.started = true
		go c.handle()
	}
}

func (c *Connection) Started() bool {
	return c.started
}

// Run processes messages until the connection is closed, changing the model
// from whichever goroutine calls Run. Frontends with their own event loop
// should use ProcessSignal and Process instead.
func (c *Connection) Run() error {
	c.ensureHandler()
	for range c.processSignal {
		if err := c.Process(); err != nil {
			return err
		}
	}
	// Apply anything queued before the reader stopped
	if err := c.Process(); err != nil {
		return err
	}
	return c.Err()
}

// Process applies all pending messages to the model, without blocking for
// new ones. The model is never changed except during calls to Process.
//
// Process returns nil when no messages are pending. All errors are fatal for
// the connection.
func (c *Connection) Process() error {
	c.ensureHandler()

	for {
		var data []byte
		select {
		case blob, open := <-c.queue:
			if !open {
				return c.Err()
			}
			data = blob
		default:
			return c.Err()
		}

		var base messageBase
		if err := json.Unmarshal(data, &base); err != nil {
			c.fatal("process invalid message: %s", err)
			return c.Err()
		}

		switch base.Command {
		case "SERVICE_SET":
			var msg serviceSetMessage
			if err := json.Unmarshal(data, &msg); err != nil || msg.Service == nil {
				c.fatal("process invalid SERVICE_SET: %v", err)
				return c.Err()
			}
			if msg.Service.Name == "" {
				log.Warn().Msg("SERVICE_SET without a service name ignored")
				break
			}
			c.model.Set(*msg.Service)

		case "SERVICE_REMOVE":
			var msg serviceRemoveMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				c.fatal("process invalid SERVICE_REMOVE: %s", err)
				return c.Err()
			}
			c.model.Remove(msg.Name)

		case "SERVICE_RESET":
			var msg serviceResetMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				c.fatal("process invalid SERVICE_RESET: %s", err)
				return c.Err()
			}
			c.model.Reset(msg.Services)

		default:
			c.fatal("unknown command %s", base.Command)
			return c.Err()
		}
	}
}

// ProcessSignal receives a value when messages are waiting for Process, and
// is closed when the connection ends.
func (c *Connection) ProcessSignal() <-chan struct{} {
	c.ensureHandler()
	return c.processSignal
}
