// Package metrics exposes Prometheus metrics for the control panel: live
// bindings, and the control actions and audio changes users make.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	controlpanel "github.com/CrimsonAS/controlpanel/backend"
)

// Sink counts events. Forward panels to it alongside the real sinks.
type Sink struct {
	actions *prometheus.CounterVec
	audio   *prometheus.CounterVec
}

var _ controlpanel.ActionSink = &Sink{}

// NewSink creates the metrics and registers them, with Go runtime and process
// metrics, on reg.
func NewSink(reg prometheus.Registerer) *Sink {
	s := &Sink{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "controlpanel_control_actions_total",
				Help: "Control actions emitted by panels, by action.",
			},
			[]string{"action"},
		),
		audio: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "controlpanel_audio_events_total",
				Help: "Audio control changes emitted by panels, by signal.",
			},
			[]string{"signal"},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),

		s.actions,
		s.audio,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "controlpanel_bindings_live",
				Help: "Bindings between records and widgets that have not been released.",
			},
			func() float64 { return float64(controlpanel.LiveBindings()) },
		),
	)
	return s
}

func (s *Sink) SendAction(ev controlpanel.ControlActionEvent) error {
	s.actions.WithLabelValues(ev.Kind.String()).Inc()
	return nil
}

func (s *Sink) SendAudio(ev controlpanel.AudioEvent) error {
	s.audio.WithLabelValues(ev.Signal).Inc()
	return nil
}

// Handler returns the HTTP handler for the /metrics endpoint of gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
