package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codapos/pos-agent/internal/domain/enum"
	"github.com/codapos/pos-agent/internal/infrastructure/api"
)

// memSessionStore keeps the token in memory.
type memSessionStore struct {
	mu    sync.Mutex
	token string
}

func (m *memSessionStore) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memSessionStore) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memSessionStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func signedSessionToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "merchant",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestRestoreActivatesStoredSession(t *testing.T) {
	client := api.NewClient("http://localhost", time.Second)
	store := &memSessionStore{token: signedSessionToken(t, time.Now().Add(time.Hour))}
	session := NewSessionService(client, store)

	activations := 0
	session.OnActivated(func() { activations++ })
	session.Restore()

	assert.Equal(t, 1, activations)
	assert.True(t, session.Active())
}

func TestRestoreDiscardsExpiredToken(t *testing.T) {
	client := api.NewClient("http://localhost", time.Second)
	store := &memSessionStore{token: signedSessionToken(t, time.Now().Add(-time.Hour))}
	session := NewSessionService(client, store)

	activations := 0
	session.OnActivated(func() { activations++ })
	session.Restore()

	assert.Equal(t, 0, activations)
	assert.False(t, session.Active())
	stored, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, stored, "an expired stored token is cleared")
}

func TestSetTokenRejectsExpiredAndEmpty(t *testing.T) {
	client := api.NewClient("http://localhost", time.Second)
	session := NewSessionService(client, &memSessionStore{})

	activations := 0
	session.OnActivated(func() { activations++ })

	assert.Error(t, session.SetToken("   "))
	assert.Error(t, session.SetToken(signedSessionToken(t, time.Now().Add(-time.Minute))))
	assert.Equal(t, 0, activations)
	assert.False(t, session.Active())
}

// Pollers must follow the session lifecycle: the agent usually boots without
// a token, and the front-end hands one over later via the HTTP surface. That
// handover has to start the background polling.
func TestTokenHandoverStartsPolling(t *testing.T) {
	u := newDeliveryUpstream()
	t.Cleanup(u.server.Close)
	seedOrder(u, enum.DeliveryStatusPending)

	client := api.NewClient(u.server.URL, 5*time.Second)
	_, tickers := newFakeTickers()
	delivery := NewDeliveryService(api.NewDeliveryAPI(client), time.Minute, tickers)
	t.Cleanup(delivery.Stop)

	session := NewSessionService(client, &memSessionStore{})
	session.OnActivated(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		delivery.Start(ctx)
	})
	session.OnExpired(delivery.Stop)
	session.Restore()

	assert.Empty(t, delivery.Orders(""), "no polling before the token handover")

	require.NoError(t, session.SetToken(signedSessionToken(t, time.Now().Add(time.Hour))))
	assert.Len(t, delivery.Orders(""), 1, "handover warms the replica and starts polling")
}

func TestUnauthorizedResponsePausesPolling(t *testing.T) {
	u := newDeliveryUpstream()
	t.Cleanup(u.server.Close)
	seedOrder(u, enum.DeliveryStatusPending)

	client := api.NewClient(u.server.URL, 5*time.Second)
	ticker, tickers := newFakeTickers()
	delivery := NewDeliveryService(api.NewDeliveryAPI(client), time.Minute, tickers)
	t.Cleanup(delivery.Stop)

	session := NewSessionService(client, &memSessionStore{})
	stopped := make(chan struct{}, 1)
	session.OnActivated(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		delivery.Start(ctx)
	})
	session.OnExpired(func() {
		delivery.Stop()
		stopped <- struct{}{}
	})

	require.NoError(t, session.SetToken(signedSessionToken(t, time.Now().Add(time.Hour))))
	require.Len(t, delivery.Orders(""), 1)

	u.mu.Lock()
	u.unauthorized = true
	u.mu.Unlock()
	ticker.tick()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("401 never paused the pollers")
	}
	assert.False(t, session.Active())
}

func TestClearPausesPolling(t *testing.T) {
	u := newDeliveryUpstream()
	t.Cleanup(u.server.Close)

	client := api.NewClient(u.server.URL, 5*time.Second)
	_, tickers := newFakeTickers()
	delivery := NewDeliveryService(api.NewDeliveryAPI(client), time.Minute, tickers)
	t.Cleanup(delivery.Stop)

	session := NewSessionService(client, &memSessionStore{})
	stopped := make(chan struct{}, 1)
	session.OnActivated(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		delivery.Start(ctx)
	})
	session.OnExpired(func() {
		delivery.Stop()
		stopped <- struct{}{}
	})

	require.NoError(t, session.SetToken(signedSessionToken(t, time.Now().Add(time.Hour))))
	require.NoError(t, session.Clear())

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("logout never paused the pollers")
	}
	assert.False(t, session.Active())
}
