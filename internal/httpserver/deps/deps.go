package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/oneshop/internal/catalog"
	"github.com/MrSnakeDoc/oneshop/internal/index"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
	"github.com/MrSnakeDoc/oneshop/internal/tracking"
)

// HealthChecker is a backend that can report its reachability
type HealthChecker interface {
	Name() string
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	TimeNow          func() time.Time   // for testing, defaults to time.Now
	AllowedHosts     []string           // Host headers allowed to access admin endpoints
	AllowedCIDRS     []string           // IPs allowed to access admin and health endpoints
	AllowedOrigins   []string           // CORS origins allowed on the public API
	TrustProxy       bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CatalogFile      string             // Path to the catalog file
	RedisClient      *redis.Client      // Redis client connection
	MemoryIndex      *index.MemoryIndex // Current catalog snapshot and click counters
	Catalog          *catalog.Manager   // Serialized catalog edits
	Tracker          *tracking.Tracker  // Fire-and-forget click tracking
	ClickStore       HealthChecker      // Durable click backend (nil if memory only)
	ProbeTimeout     time.Duration      // Timeout for each link health probe
	ProbeConcurrency int                // Max concurrent link health probes
	ClickRateBurst   int                // Click recording burst per client IP
	ClickRatePerMin  int                // Click recording refill per minute per client IP
	ReloadTrigger    chan struct{}      // Channel to trigger manual catalog reload
}
