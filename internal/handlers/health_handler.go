package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	StatusOk          = "ok"
	StatusDown        = "down"
	StatusDisabled    = "disabled"
	healthPingTimeout = 2 * time.Second
)

// Pinger is satisfied by the repository store and the Redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthServices struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

type HealthReport struct {
	AppVersion        string         `json:"appVersion"`
	CurrentSystemTime string         `json:"currentSystemTime"`
	Status            string         `json:"status"`
	Services          HealthServices `json:"services"`
}

type HealthHandler struct {
	db    Pinger
	redis Pinger
}

// NewHealthHandler takes a nil redis when the identity cache is disabled.
func NewHealthHandler(db Pinger, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// CheckHealth answers 503 when the database is unreachable. A Redis outage
// is reported but does not fail the check; auth falls back to direct
// verification.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	ctx := c.Request.Context()
	report := HealthReport{
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().UTC().Format(time.RFC3339),
		Status:            StatusOk,
		Services: HealthServices{
			Database: ping(ctx, h.db),
			Redis:    StatusDisabled,
		},
	}
	if h.redis != nil {
		report.Services.Redis = ping(ctx, h.redis)
	}

	statusCode := http.StatusOK
	if report.Services.Database != StatusOk {
		statusCode = http.StatusServiceUnavailable
		report.Status = StatusDown
	}
	c.JSON(statusCode, report)
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return StatusDown
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	if err := p.Ping(timeoutCtx); err != nil {
		return StatusDown
	}
	return StatusOk
}

func getAppVersion() string {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		return "dev"
	}
	return version
}
