package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "campaign_emails_sent_total", Help: "Emails delivered to the SMTP gateway"},
	)
	EmailsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "campaign_emails_failed_total", Help: "Send attempts that failed"},
		[]string{"kind"},
	)
	EmailsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "campaign_emails_skipped_total", Help: "Recipients skipped in dry-run mode"},
	)
	RateLimitWaitSeconds = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "campaign_rate_limit_wait_seconds_total", Help: "Total time spent waiting on the rate limiter"},
	)
	SendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "campaign_send_duration_seconds",
			Help:    "Time spent in a single gateway send",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		EmailsSent, EmailsFailed, EmailsSkipped, RateLimitWaitSeconds, SendDuration,
	)
}

func Handler() http.Handler { return promhttp.Handler() }
