// Package telemetry exports the outcome of a run as Prometheus metrics in the
// node_exporter textfile format.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shazow/wifiswitch/wifi"
)

const namespace = "wifiswitch"

// Metrics holds one run's gauges in a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	WirelessUp         prometheus.Gauge
	ConfiguredNetworks *prometheus.GaugeVec
	ScannedNetworks    prometheus.Gauge
	MatchedNetworks    prometheus.Gauge
	MutatedSections    *prometheus.GaugeVec
	StepFailures       *prometheus.GaugeVec
	LastRun            prometheus.Gauge
}

// New creates and registers the gauges.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		WirelessUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wireless_up",
			Help:      "Whether the wireless radio reported up (1) or down (0)",
		}),
		ConfiguredNetworks: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "configured_networks",
				Help:      "Number of configured wireless interfaces",
			},
			[]string{"mode", "state"},
		),
		ScannedNetworks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scanned_networks",
			Help:      "Number of networks seen in the last scan",
		}),
		MatchedNetworks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "matched_networks",
			Help:      "Number of configured networks found in range",
		}),
		MutatedSections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mutated_sections",
				Help:      "Number of sections updated by the last traversal",
			},
			[]string{"traversal"},
		),
		StepFailures: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "step_failed",
				Help:      "Whether a step of the last run failed",
			},
			[]string{"step"},
		),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last run",
		}),
	}
	m.Registry.MustRegister(
		m.WirelessUp,
		m.ConfiguredNetworks,
		m.ScannedNetworks,
		m.MatchedNetworks,
		m.MutatedSections,
		m.StepFailures,
		m.LastRun,
	)
	return m
}

// Observe records an outcome and the error returned with it.
func (m *Metrics) Observe(out wifi.Outcome, err error, now time.Time) {
	m.LastRun.Set(float64(now.Unix()))

	if out.WirelessUp != nil {
		m.WirelessUp.Set(boolToFloat(*out.WirelessUp))
	}
	if out.Configured != nil {
		m.ConfiguredNetworks.Reset()
		for _, n := range out.Configured {
			state := "enabled"
			if n.Disabled {
				state = "disabled"
			}
			m.ConfiguredNetworks.WithLabelValues(n.Mode.String(), state).Inc()
		}
	}
	if out.Scanned != nil {
		m.ScannedNetworks.Set(float64(len(out.Scanned)))
	}
	if out.Matches != nil {
		m.MatchedNetworks.Set(float64(len(out.Matches)))
	}
	for _, r := range []*wifi.TraversalReport{out.AP, out.STA} {
		if r != nil {
			m.MutatedSections.WithLabelValues(r.Mode.String()).Set(float64(len(r.Mutated)))
		}
	}

	failed := map[wifi.Step]bool{}
	for _, s := range wifi.FailedSteps(err) {
		failed[s] = true
	}
	for _, s := range wifi.Steps {
		m.StepFailures.WithLabelValues(string(s)).Set(boolToFloat(failed[s]))
	}
}

// WriteTextfile atomically writes the metrics to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
