package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var authEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "auth_events_total",
	Help: "Authentication operations by operation and outcome.",
}, []string{"operation", "outcome"})
