package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ReminderRuns counts reminder job executions by outcome.
	ReminderRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reminder_runs_total",
		Help: "Policy expiry reminder runs by outcome.",
	}, []string{"outcome"})

	// RemindersSent counts policies moved to Expiring Soon by the reminder job.
	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reminders_sent_total",
		Help: "Policies reminded and moved to Expiring Soon.",
	})

	// LoginAttempts counts login attempts by role and outcome.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Login attempts by role and outcome.",
	}, []string{"role", "outcome"})

	// LeadsCreated counts quote requests received.
	LeadsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leads_created_total",
		Help: "Quote requests received from the public form.",
	})
)

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
