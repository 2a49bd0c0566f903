package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/simorq_frontdesk/config"
)

func TestFromCentralConfig(t *testing.T) {
	c := &config.Config{}
	c.Observability.ServiceName = "frontdesk"
	c.Observability.Tracing.OTLPEndpoint = "collector:4318"
	c.Server.Environment = "staging"

	cfg := FromCentralConfig(c)
	assert.Equal(t, "frontdesk", cfg.ServiceName)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Empty(t, cfg.OTLPEndpoint, "endpoint is ignored while tracing is disabled")

	c.Observability.Tracing.Enabled = true
	assert.Equal(t, "collector:4318", FromCentralConfig(c).OTLPEndpoint)
}

func TestFiberMiddleware_RecordsMetrics(t *testing.T) {
	p, err := InitTelemetry(context.Background(), Config{ServiceName: "frontdesk-test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	app := fiber.New()
	app.Use(FiberMiddleware("frontdesk-test"))
	app.Get("/ping", func(c fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(HeaderTraceID))

	rec := httptest.NewRecorder()
	p.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_server_request_count")
}
