package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/plms/internal/server/auth"
	"github.com/dmitrijs2005/plms/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.DatabaseDSN = "sqlite://:memory:"
	c.SecretKey = "app-test-secret"
	return c
}

func TestNewApp_RequiresSecret(t *testing.T) {
	c := testConfig()
	c.SecretKey = ""

	_, err := NewApp(context.Background(), c)
	require.ErrorIs(t, err, auth.ErrEmptySecret)
}

func TestNewApp_RejectsUnknownDSN(t *testing.T) {
	c := testConfig()
	c.DatabaseDSN = "mysql://localhost/plms"

	_, err := NewApp(context.Background(), c)
	require.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	assert.Error(t, app.db.Ping(), "database closed on shutdown")
}
