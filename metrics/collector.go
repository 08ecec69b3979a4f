package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lixenwraith/urgency/status"
)

// StatusCollector exports every status.Registry entry as a labelled gauge
type StatusCollector struct {
	reg  *status.Registry
	desc *prometheus.Desc
}

// NewStatusCollector wraps reg; register the result with a prometheus.Registerer
func NewStatusCollector(reg *status.Registry) *StatusCollector {
	return &StatusCollector{
		reg: reg,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "status"),
			"In-process engine status metric.",
			[]string{"name"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *StatusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector
func (c *StatusCollector) Collect(ch chan<- prometheus.Metric) {
	values := c.reg.Values()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, values[name], name)
	}
}
