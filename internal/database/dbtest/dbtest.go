// Package dbtest opens isolated, migrated in-memory SQLite stores for tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Tomlord1122/todo-board/internal/config"
	"github.com/Tomlord1122/todo-board/internal/database"
)

// Clock is a manually advanced clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// MemoryPath returns a shared-cache in-memory SQLite URI unique to the test.
func MemoryPath(t testing.TB) string {
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

// Open returns a migrated store that is closed when the test ends.
func Open(t testing.TB, clock *Clock) database.Service {
	t.Helper()

	cfg := config.Database{
		Driver:       config.DriverSQLite,
		SQLitePath:   MemoryPath(t),
		LogLevel:     "silent",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	if clock != nil {
		cfg.Now = clock.Now
	}

	svc, err := database.New(cfg)
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := svc.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}
