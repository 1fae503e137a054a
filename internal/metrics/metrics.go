// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by the token source and dispatcher.
type Recorder interface {
	RecordTokenRefresh(outcome string)
	RecordMessageSent(channel, outcome string)
}

// Collector records provider-integration metrics into a Prometheus registry.
type Collector struct {
	tokenRefresh *prometheus.CounterVec
	messagesSent *prometheus.CounterVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tokenRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wechat_token_refresh_total",
			Help: "App access token refresh attempts by outcome.",
		}, []string{"outcome"}),
		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wechat_messages_sent_total",
			Help: "Outbound notification messages by channel and outcome.",
		}, []string{"channel", "outcome"}),
	}

	reg.MustRegister(c.tokenRefresh, c.messagesSent)
	return c
}

// RecordTokenRefresh counts one app token refresh attempt.
func (c *Collector) RecordTokenRefresh(outcome string) {
	c.tokenRefresh.WithLabelValues(outcome).Inc()
}

// RecordMessageSent counts one message dispatch attempt.
func (c *Collector) RecordMessageSent(channel, outcome string) {
	c.messagesSent.WithLabelValues(channel, outcome).Inc()
}

// Handler returns the scrape handler for the provided gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
