package handler

import (
	"context"
	"net/http"
	"time"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/resilience/circuitbreaker"

	"github.com/gofiber/fiber/v2"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
	statusDisabled  = "disabled"

	healthCheckTimeout = 5 * time.Second
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports whether the service can take traffic.
// Only the database is required; cache and upstream breakers degrade the status without failing it.
type HealthHandler struct {
	db       Pinger
	cache    domain.Cache
	breakers []*circuitbreaker.CircuitBreaker
	now      func() time.Time
}

// NewHealthHandler creates a HealthHandler. cache may be nil when caching is disabled.
func NewHealthHandler(db Pinger, cache domain.Cache, breakers ...*circuitbreaker.CircuitBreaker) *HealthHandler {
	return &HealthHandler{
		db:       db,
		cache:    cache,
		breakers: breakers,
		now:      time.Now,
	}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/healthz", h.Health)
}

// Health godoc
// @Summary Readiness check
// @Description Checks the database, the cache and the upstream circuit breakers
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	checks := make(map[string]dto.CheckStatus, 2+len(h.breakers))
	healthy := true

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = dto.CheckStatus{Status: statusUnhealthy, Message: err.Error()}
		healthy = false
	} else {
		checks["database"] = dto.CheckStatus{Status: statusHealthy}
	}

	switch {
	case h.cache == nil:
		checks["cache"] = dto.CheckStatus{Status: statusDisabled}
	case h.cache.Ping(ctx) != nil:
		checks["cache"] = dto.CheckStatus{Status: statusDegraded, Message: "cache unreachable, serving from database"}
	default:
		checks["cache"] = dto.CheckStatus{Status: statusHealthy}
	}

	for _, cb := range h.breakers {
		status := statusHealthy
		if cb.IsOpen() {
			status = statusDegraded
		}
		checks["breaker:"+cb.Name()] = dto.CheckStatus{Status: status, Message: cb.State().String()}
	}

	resp := dto.HealthResponse{
		Status:    statusHealthy,
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = statusUnhealthy
		code = http.StatusServiceUnavailable
	}

	c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	return c.Status(code).JSON(resp)
}
