// FILE: lixenwraith/flatconfig/metrics.go
package flatconfig

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "flatconfig"

// Load results recorded in the loads_total counter.
const (
	resultSuccess    = "success"
	resultNotFound   = "not_found"
	resultParseError = "parse_error"
	resultError      = "error"
)

// metrics holds the optional Prometheus collectors. A nil *metrics is valid
// and records nothing.
type metrics struct {
	loads              *prometheus.CounterVec
	conversionFailures prometheus.Counter
	keys               prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	m := &metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "loads_total",
			Help:      "Configuration loads by provider and result",
		}, []string{"provider", "result"}),
		conversionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "conversion_failures_total",
			Help:      "Typed lookups that fell back to the default after a failed conversion",
		}),
		keys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "keys",
			Help:      "Number of keys in the merged configuration",
		}),
	}

	registerer.MustRegister(m.loads, m.conversionFailures, m.keys)
	return m
}

func (m *metrics) observeLoad(provider, result string) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(provider, result).Inc()
}

func (m *metrics) observeConversionFailure() {
	if m == nil {
		return
	}
	m.conversionFailures.Inc()
}

func (m *metrics) setKeys(n int) {
	if m == nil {
		return
	}
	m.keys.Set(float64(n))
}
