// Package apptest runs the full HTTP API over the memory stores for tests
// of packages that talk to it.
package apptest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/jobboard/internal/app"
	"github.com/dtroode/jobboard/internal/config"
	"github.com/dtroode/jobboard/internal/events"
	"github.com/dtroode/jobboard/internal/repository/memory"
	"github.com/dtroode/jobboard/internal/testutil"
)

// Config returns settings with a cheap KDF suitable for tests.
func Config() *config.Config {
	return &config.Config{
		HTTP:     config.HTTP{AllowedOrigins: []string{"*"}},
		Database: config.Database{Driver: config.DriverMemory},
		KDF:      config.KDF{Time: 1, MemKiB: 8 * 1024, Par: 1},
		JWT: config.JWT{
			Secret:     "test-secret",
			Issuer:     "jobboard-test",
			AccessTTL:  time.Minute,
			RefreshTTL: time.Hour,
		},
	}
}

// NewServer starts the API on an httptest server that is closed when the
// test ends.
func NewServer(t testing.TB) (*httptest.Server, *app.App) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a := app.New(Config(), app.MemoryStores(memory.NewDB()), nil, events.Noop{}, testutil.MakeNoopLogger())
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	return srv, a
}
