package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTokenRefresh("ok")
	c.RecordTokenRefresh("ok")
	c.RecordTokenRefresh("error")
	c.RecordMessageSent("template", "ok")
	c.RecordMessageSent("custom", "rejected")

	require.Equal(t, float64(2), testutil.ToFloat64(c.tokenRefresh.WithLabelValues("ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.tokenRefresh.WithLabelValues("error")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.messagesSent.WithLabelValues("template", "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(c.messagesSent.WithLabelValues("custom", "rejected")))
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordMessageSent("template", "ok")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "wechat_messages_sent_total")
}
