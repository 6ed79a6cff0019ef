package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fightdex/fightdex/pkg/errors"
)

// fakeClock advances only when told to, so window pruning is tested
// without real sleeps.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGateAdmitsUpToWindowCap(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	g := NewGate(3, time.Minute, 0, WithGateClock(clock.Now))

	for i := 0; i < 3; i++ {
		assert.Zero(t, g.tryAdmit())
	}
	assert.Positive(t, g.tryAdmit())
	assert.Equal(t, 3, g.Pending())

	// Once the window rolls past the oldest stamp, capacity returns.
	clock.Advance(61 * time.Second)
	assert.Zero(t, g.tryAdmit())
}

func TestGateEnforcesMinDelay(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	g := NewGate(0, 0, time.Second, WithGateClock(clock.Now))

	assert.Zero(t, g.tryAdmit())
	wait := g.tryAdmit()
	assert.Equal(t, time.Second, wait)

	clock.Advance(400 * time.Millisecond)
	assert.Equal(t, 600*time.Millisecond, g.tryAdmit())

	clock.Advance(600 * time.Millisecond)
	assert.Zero(t, g.tryAdmit())
}

func TestGateWaitHonorsContext(t *testing.T) {
	g := NewGate(1, time.Hour, 0)
	require.NoError(t, g.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := g.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGateUnlimited(t *testing.T) {
	g := NewGate(0, 0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, g.Wait(context.Background()))
	}
}

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fightdex/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"name":"Movsar Evloev"}`))
	}))
	defer srv.Close()

	c := NewClient("ufc", nil)
	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "Movsar Evloev", out.Name)
}

func TestClientGetStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{"rate limited", http.StatusTooManyRequests, errors.ErrRateLimited},
		{"server error", http.StatusBadGateway, errors.ErrSourceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient("ufc", nil)
			_, err := c.Get(context.Background(), srv.URL)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.True(t, errors.IsRecoverable(err))
		})
	}
}

func TestClientGetParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient("sherdog", nil)
	var out map[string]any
	err := c.GetJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)

	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)
	assert.False(t, errors.IsRecoverable(err))
}

func TestClientGateRefusalWrapsError(t *testing.T) {
	g := NewGate(1, time.Hour, 0)
	require.NoError(t, g.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient("ufc", g)
	_, err := c.Get(ctx, "http://unreachable.example/")
	require.Error(t, err)

	var ferr *errors.FetchError
	assert.ErrorAs(t, err, &ferr)
	assert.Equal(t, "ufc", ferr.Source)
}
