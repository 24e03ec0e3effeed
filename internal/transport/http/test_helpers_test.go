package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jparr721/boysdotapp/internal/config"
	"github.com/jparr721/boysdotapp/internal/core"
	"github.com/jparr721/boysdotapp/internal/store"
	"github.com/jparr721/boysdotapp/internal/store/sqlite"
)

// startTestServer boots the full HTTP surface over an in-memory
// sqlite store and returns the test server plus the store for seeding.
func startTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := zerolog.Nop()
	broker := core.NewBroker(st, &logger, time.Second)

	server := NewServer(broker, st, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, st
}

// decodeData re-marshals an Outbound.Data payload into a concrete type.
func decodeData(t *testing.T, data any, dst any) {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal event data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("unmarshal event data: %v", err)
	}
}
