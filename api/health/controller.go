package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"campusfood/config"
	"campusfood/infrastructure/persistence/monitor"
	"campusfood/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	pingTimeout     = 2 * time.Second
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Controller struct {
	config    *config.Config
	db        Pinger
	hold      *monitor.HoldMonitor
	startTime time.Time
}

// NewController accepts a nil db for the in-memory store.
func NewController(cfg *config.Config, db Pinger, hold *monitor.HoldMonitor) *Controller {
	return &Controller{
		config:    cfg,
		db:        db,
		hold:      hold,
		startTime: time.Now(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.Health)
	router.GET("/health/live", c.Liveness)
	router.GET("/health/ready", c.Readiness)
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Timestamp    string            `json:"timestamp"`
	Checks       map[string]Check  `json:"checks,omitempty"`
	Transactions monitor.HoldStats `json:"transactions"`
	System       *SystemInfo       `json:"system,omitempty"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Health pings the database and reports transaction hold counters.
func (c *Controller) Health(ctx *gin.Context) {
	checks := make(map[string]Check)
	overall := statusHealthy

	if c.db != nil {
		check := c.checkDatabase(ctx.Request.Context())
		checks["database"] = check
		overall = check.Status
	} else {
		checks["database"] = Check{Status: statusHealthy, Message: "in-memory store"}
	}

	resp := HealthResponse{
		Status:       overall,
		Version:      c.config.App.Version,
		Uptime:       time.Since(c.startTime).Round(time.Second).String(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Checks:       checks,
		Transactions: c.hold.Stats(),
	}

	if c.config.IsDevelopment() {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		resp.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     mem.Alloc,
		}
	}

	status := http.StatusOK
	if overall != statusHealthy {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, resp)
}

func (c *Controller) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness fails while the database is unreachable so traffic is held back.
func (c *Controller) Readiness(ctx *gin.Context) {
	if c.db != nil {
		if check := c.checkDatabase(ctx.Request.Context()); check.Status != statusHealthy {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "message": "database not available"})
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (c *Controller) checkDatabase(ctx context.Context) Check {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := c.db.PingContext(pingCtx)
	latency := time.Since(start).String()
	if err == nil {
		return Check{Status: statusHealthy, Latency: latency}
	}
	logger.FromContext(ctx).Warn("Database health check failed", zap.Error(err))
	msg := "database unreachable"
	if c.config.IsDevelopment() {
		msg = err.Error()
	}
	return Check{Status: statusUnhealthy, Message: msg, Latency: latency}
}
