package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report2resolve_status_transitions_total",
		Help: "Issue status transitions by outcome and target status category.",
	}, []string{"result", "target"})

	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report2resolve_signup_decisions_total",
		Help: "Department signup decisions by outcome and result.",
	}, []string{"result", "outcome"})

	issuesCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report2resolve_issues_created_total",
		Help: "Issues created, split by reporter kind.",
	}, []string{"reporter"})
)

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
