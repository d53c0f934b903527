package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AuthEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Sign-up and sign-in attempts by outcome",
		},
		[]string{"event", "result"},
	)
	TaskStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_status_writes_total",
			Help: "Task creates and updates by resulting status",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(AuthEvents)
	prometheus.MustRegister(TaskStatusChanges)
}
