package application

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/inconshreveable/log15/v3"
	"github.com/minbot/dashboard/internal/domain"
)

var errDiscordUnavailable = &domain.UpstreamError{Service: "discord", Message: "bot token not configured"}

type DashboardService struct {
	repo    domain.DashboardRepository
	stats   domain.StatsReader
	discord domain.DiscordGateway
	host    domain.HostMonitor
	log     log15.Logger
	locks   *keyedMutex
	now     func() time.Time
}

// NewDashboardService wires the service. discord, stats and host may be nil;
// operations that need them then degrade to warnings or upstream errors.
func NewDashboardService(repo domain.DashboardRepository, discord domain.DiscordGateway, stats domain.StatsReader, host domain.HostMonitor, logger log15.Logger) *DashboardService {
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}
	return &DashboardService{
		repo:    repo,
		stats:   stats,
		discord: discord,
		host:    host,
		log:     logger.New("module", "application"),
		locks:   newKeyedMutex(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

// requireIDs validates snowflake fields given as name/value pairs.
func requireIDs(pairs ...string) error {
	var bad []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if !domain.ValidSnowflake(pairs[i+1]) {
			bad = append(bad, pairs[i])
		}
	}
	if len(bad) > 0 {
		return domain.Invalid(bad...)
	}
	return nil
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// keyedMutex serializes work per key, e.g. one (guild, user) pair.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
