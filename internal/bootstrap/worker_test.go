package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/halyard-dev/halyard/internal/worker/caddy"
)

func TestRestoreRoutesReturnsWhenAdminUnreachable(t *testing.T) {
	t.Parallel()

	// A closed server gives an admin URL nothing listens on.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	w := &Worker{
		Routes: caddy.NewManager(caddy.Options{AdminURL: srv.URL, SitesDir: t.TempDir()}),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	w.RestoreRoutes(ctx)
	assert.Less(t, time.Since(start), 5*time.Second, "startup must not block on route restoration")
}
