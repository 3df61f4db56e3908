// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/strataleads/internal/app/system/jsonutil"
	"github.com/dalemusser/strataleads/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler provides health check endpoints.
type Handler struct {
	mongoClient *mongo.Client
	redis       *redis.Client // nil when preferences live in MongoDB
	logger      *zap.Logger
}

// NewHandler creates a new health check Handler. rdb may be nil.
func NewHandler(mongoClient *mongo.Client, rdb *redis.Client, logger *zap.Logger) *Handler {
	return &Handler{
		mongoClient: mongoClient,
		redis:       rdb,
		logger:      logger,
	}
}

// Response represents the health check response.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes mounts /health (full check), /health/ready and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the probe aliases /ready, /readyz and /livez.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// Check pings every backend. Any failure reports "degraded" with 503.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := Response{Status: "ok", Services: map[string]string{}}
	probe := func(name string, err error) {
		if err != nil {
			resp.Status = "degraded"
			resp.Services[name] = "unavailable"
			h.logger.Warn("health check: ping failed", zap.String("service", name), zap.Error(err))
			return
		}
		resp.Services[name] = "ok"
	}

	probe("mongodb", h.mongoClient.Ping(ctx, readpref.Primary()))
	if h.redis != nil {
		probe("redis", h.redis.Ping(ctx).Err())
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	jsonutil.JSON(w, status, resp)
}

// Ready reports whether MongoDB answers. Used by readiness probes.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		jsonutil.JSON(w, http.StatusServiceUnavailable, Response{Status: "not ready"})
		return
	}
	jsonutil.OK(w, Response{Status: "ready"})
}

// Live always answers. Used by liveness probes.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, Response{Status: "alive"})
}
