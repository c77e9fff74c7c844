package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rrt-planner/planner"
)

type metrics struct {
	plans    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	nodes    *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		plans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rrt_plans_total",
				Help: "Planning requests by variant and outcome",
			},
			[]string{"variant", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rrt_plan_duration_seconds",
				Help:    "Time spent growing the search tree",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"variant"},
		),
		nodes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rrt_tree_nodes",
				Help:    "Search tree size at the end of a plan",
				Buckets: prometheus.ExponentialBuckets(16, 4, 7),
			},
			[]string{"variant"},
		),
	}
	reg.MustRegister(m.plans, m.duration, m.nodes)
	return m
}

func (m *metrics) observe(variant planner.Variant, res *planner.Result) {
	v := variant.String()
	m.plans.WithLabelValues(v, res.Status.String()).Inc()
	m.duration.WithLabelValues(v).Observe(float64(res.Elapsed) / float64(time.Second))
	m.nodes.WithLabelValues(v).Observe(float64(res.Nodes))
}
