package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/medeiros-dev/notification-decision/internal/infrastructure/auditlog"
	"github.com/medeiros-dev/notification-decision/internal/infrastructure/store/memory"
	"github.com/medeiros-dev/notification-decision/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(memory.New(), auditlog.NewRecorder(), "test")

	w := doRequest(r, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"notification-decision"}`, w.Body.String())
}

func TestRouter_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(memory.New(), auditlog.NewRecorder(), "test")
	event := `{"eventId":"evt_1","userId":"usr_1","eventType":"item_shipped","timestamp":"2025-07-21T06:24:14Z","payload":{}}`

	w := doRequest(r, http.MethodPost, "/event", event)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reason":"USER_NOT_FOUND"`)

	w = doRequest(r, http.MethodPost, "/user/usr_1/preferences",
		`{"eventTypes":{"item_shipped":{"enabled":true,"channels":["email"]}}}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, http.MethodPost, "/event", event)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"decision":"PROCESS_NOTIFICATION"`)
	assert.Contains(t, w.Body.String(), `"channels":["email"]`)

	w = doRequest(r, http.MethodPost, "/user/usr_1/dnd-windows",
		`{"days":["monday"],"startTime":"08:00","endTime":"09:00","timezone":"Europe/Warsaw"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, http.MethodPost, "/event", event)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reason":"DND_ACTIVE"`)

	w = doRequest(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "notification_decision_decisions_total")
}

func TestRequestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestMetrics())
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	requests := metrics.HttpRequestsTotal.WithLabelValues("/boom", http.StatusText(http.StatusInternalServerError))
	errs := metrics.ErrorTotal.WithLabelValues("http_server_error")
	beforeRequests := testutil.ToFloat64(requests)
	beforeErrs := testutil.ToFloat64(errs)

	doRequest(r, http.MethodGet, "/boom", "")

	assert.Equal(t, beforeRequests+1, testutil.ToFloat64(requests))
	assert.Equal(t, beforeErrs+1, testutil.ToFloat64(errs))
}

func TestRouter_EventOffsetForms(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(memory.New(), auditlog.NewRecorder(), "test")

	for _, ts := range []string{
		"2025-07-21T08:24:14+02:00",
		"2025-07-21T08:24:14+0200",
		"2025-07-21T08:24:14+02",
	} {
		t.Run(ts, func(t *testing.T) {
			body := `{"eventId":"evt_1","userId":"usr_1","eventType":"item_shipped","timestamp":"` + ts + `"}`
			w := doRequest(r, http.MethodPost, "/event", body)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"reason":"USER_NOT_FOUND"`)
		})
	}
}
