package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	db          *persistence.Database
	redisClient *redis.Client
	startTime   time.Time
}

// NewSystemHandler creates a new SystemHandler. The redis client may be
// nil when token revocation runs on the in-memory blacklist.
func NewSystemHandler(db *persistence.Database, redisClient *redis.Client) *SystemHandler {
	return &SystemHandler{
		db:          db,
		redisClient: redisClient,
		startTime:   time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string            `json:"status"`
	Uptime     string            `json:"uptime"`
	GoVersion  string            `json:"go_version"`
	Components map[string]string `json:"components"`
}

// Health reports service health including database and redis connectivity
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	components := map[string]string{}
	healthy := true

	if err := h.db.Ping(); err != nil {
		components["database"] = "down: " + err.Error()
		healthy = false
	} else {
		components["database"] = "up"
	}

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			components["redis"] = "down: " + err.Error()
			healthy = false
		} else {
			components["redis"] = "up"
		}
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, dto.NewSuccessResponse(HealthResponse{
		Status:     status,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:  runtime.Version(),
		Components: components,
	}))
}
