package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// Handler serves readiness. A nil db or rdb is simply not checked.
type Handler struct {
	db  *gorm.DB
	rdb redis.Cmdable
}

func NewHandler(db *gorm.DB, rdb redis.Cmdable) *Handler { return &Handler{db: db, rdb: rdb} }

type healthResponse struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health pings every configured dependency; any failure turns the answer into 503.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	checks := map[string]string{}
	healthy := true
	record := func(name string, err error) {
		if err != nil {
			checks[name] = "down: " + err.Error()
			healthy = false
			return
		}
		checks[name] = "ok"
	}
	if h.db != nil {
		record("database", h.pingDB(ctx))
	}
	if h.rdb != nil {
		record("redis", h.rdb.Ping(ctx).Err())
	}

	resp := healthResponse{Status: "ok", Time: time.Now().UTC().Format(time.RFC3339Nano), Checks: checks}
	code := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}

func (h *Handler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
