package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector adapts a Snapshot-able source into the
// prometheus.Collector interface, so a poolmanager.Manager can be
// registered directly against a prometheus.Registry without the core
// depending on any particular metrics backend beyond this file.
type PrometheusCollector struct {
	source Source

	poolTotal        *prometheus.Desc
	poolTime         *prometheus.Desc
	acquireTotal     *prometheus.Desc
	acquireTime      *prometheus.Desc
	connectionsAdded *prometheus.Desc
	connectionsGone  *prometheus.Desc
	driverMax        *prometheus.Desc
	driverIdle       *prometheus.Desc
	driverUsed       *prometheus.Desc
}

// Source is implemented by anything that can produce a point-in-time
// Metrics snapshot; poolmanager.Manager implements it.
type Source interface {
	Metrics() Metrics
}

// NewPrometheusCollector wraps source for registration with a
// prometheus.Registerer.
func NewPrometheusCollector(source Source, namespace string) *PrometheusCollector {
	return &PrometheusCollector{
		source: source,
		poolTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "pool_selections_total"),
			"Total number of balancer pool selections.", nil, nil,
		),
		poolTime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "pool_selection_seconds_total"),
			"Total time spent selecting a pool.", nil, nil,
		),
		acquireTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "acquire_total"),
			"Total number of connection acquires.", nil, nil,
		),
		acquireTime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "acquire_seconds_total"),
			"Total time spent acquiring a connection.", nil, nil,
		),
		connectionsAdded: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "connections_added_total"),
			"Total number of pool role promotions/demotions observed per host.",
			[]string{"host"}, nil,
		),
		connectionsGone: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "connections_removed_total"),
			"Total number of hosts dropped from service per host.",
			[]string{"host"}, nil,
		),
		driverMax: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "driver_pool_max_size"),
			"Configured maximum pool size per host.",
			[]string{"host"}, nil,
		),
		driverIdle: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "driver_pool_idle"),
			"Idle connection count per host.",
			[]string{"host"}, nil,
		),
		driverUsed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "driver_pool_used"),
			"Borrowed connection count per host.",
			[]string{"host"}, nil,
		),
	}
}

var _ prometheus.Collector = (*PrometheusCollector)(nil)

// Describe implements prometheus.Collector.
func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.poolTotal
	ch <- c.poolTime
	ch <- c.acquireTotal
	ch <- c.acquireTime
	ch <- c.connectionsAdded
	ch <- c.connectionsGone
	ch <- c.driverMax
	ch <- c.driverIdle
	ch <- c.driverUsed
}

// Collect implements prometheus.Collector.
func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.source.Metrics()

	ch <- prometheus.MustNewConstMetric(c.poolTotal, prometheus.CounterValue, float64(snap.Hasql.Pool))
	ch <- prometheus.MustNewConstMetric(c.poolTime, prometheus.CounterValue, snap.Hasql.PoolTime.Seconds())
	ch <- prometheus.MustNewConstMetric(c.acquireTotal, prometheus.CounterValue, float64(snap.Hasql.Acquire))
	ch <- prometheus.MustNewConstMetric(c.acquireTime, prometheus.CounterValue, snap.Hasql.AcquireTime.Seconds())

	for host, n := range snap.Hasql.AddConnections {
		ch <- prometheus.MustNewConstMetric(c.connectionsAdded, prometheus.CounterValue, float64(n), host)
	}
	for host, n := range snap.Hasql.RemoveConnections {
		ch <- prometheus.MustNewConstMetric(c.connectionsGone, prometheus.CounterValue, float64(n), host)
	}

	for _, d := range snap.Drivers {
		ch <- prometheus.MustNewConstMetric(c.driverMax, prometheus.GaugeValue, float64(d.Max), d.Host)
		ch <- prometheus.MustNewConstMetric(c.driverIdle, prometheus.GaugeValue, float64(d.Idle), d.Host)
		ch <- prometheus.MustNewConstMetric(c.driverUsed, prometheus.GaugeValue, float64(d.Used), d.Host)
	}
}
