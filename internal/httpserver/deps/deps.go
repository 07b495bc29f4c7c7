package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/quicklink/internal/commands"
	"github.com/MrSnakeDoc/quicklink/internal/dirindex"
	"github.com/MrSnakeDoc/quicklink/internal/index"
	"github.com/MrSnakeDoc/quicklink/internal/items"
	"github.com/MrSnakeDoc/quicklink/internal/logger"
	"github.com/MrSnakeDoc/quicklink/internal/resolver"
	"github.com/MrSnakeDoc/quicklink/internal/usage"
)

// Pinger reports whether the persistence backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	AllowedHosts    []string           // Host headers allowed to access the server
	AllowedCIDRS    []string           // IPs allowed to access the API
	TrustProxy      bool               // true if running behind a trusted reverse proxy
	RateLimitBurst  int                // token bucket size for mutation routes
	RateLimitPerMin int                // token refill per IP per minute
	StoreBackend    string             // "file" | "sqlite" | "redis"
	Store           Pinger             // active backend
	MemoryIndex     *index.MemoryIndex // live items and commands
	Resolver        *resolver.Resolver
	Items           *items.Service
	Commands        *commands.Registry
	Usage           *usage.Tracker
	Directories     *dirindex.Indexer
	ResultLimit     int           // default results per query
	IncludeBuiltins bool          // default for the builtins query parameter
	ReloadTrigger   chan struct{} // Channel to trigger manual store reload
}
