package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler serves /health with optional DB and Redis checks.
type HealthHandler struct {
	pool  *pgxpool.Pool
	redis *redis.Client
	now   func() time.Time
}

// NewHealthHandler creates a health handler (pool and redis optional).
func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redisClient, now: time.Now}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
	Message   string            `json:"message,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allOK := true

	if h.pool != nil {
		if err := h.pool.Ping(ctx); err != nil {
			checks["database"] = "down"
			allOK = false
		} else {
			checks["database"] = "ok"
		}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "down"
			allOK = false
		} else {
			checks["redis"] = "ok"
		}
	}

	resp := healthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	code := http.StatusOK
	if !allOK {
		code = http.StatusServiceUnavailable
		resp.Status = "unhealthy"
		resp.Message = "one or more checks failed"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
