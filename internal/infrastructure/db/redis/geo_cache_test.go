package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/identityadmin/admin-service/internal/core/domain"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	down error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (s *memStore) Get(_ context.Context, key string) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down != nil {
		return redis.NewStringResult("", s.down)
	}
	raw, ok := s.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(raw), nil)
}

func (s *memStore) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down != nil {
		return redis.NewStatusResult("", s.down)
	}
	s.data[key] = value.([]byte)
	s.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

type countingGeo struct {
	calls   atomic.Int32
	release chan struct{}
}

var (
	brasil   = domain.Country{ID: "BR", Name: "Brasil"}
	saoPaulo = domain.State{ID: "BR-SP", Name: "São Paulo", Country: &brasil}
	campinas = domain.City{ID: "BR-SP-CPQ", Name: "Campinas", State: &saoPaulo}
)

func (g *countingGeo) hit() {
	g.calls.Add(1)
	if g.release != nil {
		<-g.release
	}
}

func (g *countingGeo) Countries(context.Context) ([]domain.Country, error) {
	g.hit()
	return []domain.Country{brasil}, nil
}

func (g *countingGeo) States(_ context.Context, countryID string) ([]domain.State, error) {
	g.hit()
	if countryID != brasil.ID {
		return []domain.State{}, nil
	}
	return []domain.State{saoPaulo}, nil
}

func (g *countingGeo) Cities(context.Context, string, string) ([]domain.City, error) {
	g.hit()
	return []domain.City{campinas}, nil
}

func (g *countingGeo) CountryByID(_ context.Context, id string) (*domain.Country, error) {
	g.hit()
	if id != brasil.ID {
		return nil, domain.NewNotFound(domain.KindCountry, id)
	}
	c := brasil
	return &c, nil
}

func (g *countingGeo) StateByID(_ context.Context, id string) (*domain.State, error) {
	g.hit()
	if id != saoPaulo.ID {
		return nil, domain.NewNotFound(domain.KindState, id)
	}
	s := saoPaulo
	return &s, nil
}

func (g *countingGeo) CityByID(_ context.Context, id string) (*domain.City, error) {
	g.hit()
	if id != campinas.ID {
		return nil, domain.NewNotFound(domain.KindCity, id)
	}
	c := campinas
	return &c, nil
}

// contextGeo blocks Countries until released or until its context ends.
type contextGeo struct {
	countingGeo
	hadDeadline atomic.Bool
}

func (g *contextGeo) Countries(ctx context.Context) ([]domain.Country, error) {
	g.calls.Add(1)
	_, ok := ctx.Deadline()
	g.hadDeadline.Store(ok)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.release:
		return []domain.Country{brasil}, nil
	}
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestGeoCache_MissThenHit(t *testing.T) {
	store := newMemStore()
	inner := &countingGeo{}
	cache := NewGeoCache(inner, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	first, err := cache.CityByID(ctx, campinas.ID)
	require.NoError(t, err)
	second, err := cache.CityByID(ctx, campinas.ID)
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Equal(t, first, second)
	assert.Equal(t, "BR", second.CountryID())
	assert.Equal(t, time.Minute, store.ttls["geo:city:BR-SP-CPQ"])
}

func TestGeoCache_ListsAreKeyedByParent(t *testing.T) {
	store := newMemStore()
	inner := &countingGeo{}
	cache := NewGeoCache(inner, store, 0, zerolog.Nop())
	ctx := context.Background()

	br, err := cache.States(ctx, "BR")
	require.NoError(t, err)
	pt, err := cache.States(ctx, "PT")
	require.NoError(t, err)
	_, err = cache.States(ctx, "BR")
	require.NoError(t, err)

	assert.Len(t, br, 1)
	assert.Empty(t, pt)
	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Equal(t, defaultGeoTTL, store.ttls["geo:states:BR"])
}

func TestGeoCache_NotFoundIsNotCached(t *testing.T) {
	store := newMemStore()
	inner := &countingGeo{}
	cache := NewGeoCache(inner, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cache.CountryByID(ctx, "XX")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	}

	assert.Equal(t, int32(2), inner.calls.Load())
	assert.Empty(t, store.data)
}

func TestGeoCache_StoreDownFallsBackToStorage(t *testing.T) {
	store := newMemStore()
	store.down = errors.New("connection refused")
	inner := &countingGeo{}
	cache := NewGeoCache(inner, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		countries, err := cache.Countries(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Country{brasil}, countries)
	}
	assert.Equal(t, int32(3), inner.calls.Load())
}

func TestGeoCache_UndecodableEntryIsReloaded(t *testing.T) {
	store := newMemStore()
	store.data["geo:country:BR"] = []byte("{not json")
	inner := &countingGeo{}
	cache := NewGeoCache(inner, store, time.Minute, zerolog.Nop())

	c, err := cache.CountryByID(context.Background(), "BR")

	require.NoError(t, err)
	assert.Equal(t, "Brasil", c.Name)
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.JSONEq(t, `{"ID":"BR","Name":"Brasil"}`, string(store.data["geo:country:BR"]))
}

func TestGeoCache_ConcurrentMissesLoadOnce(t *testing.T) {
	store := newMemStore()
	inner := &countingGeo{release: make(chan struct{})}
	cache := NewGeoCache(inner, store, time.Minute, zerolog.Nop())
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	results := make([][]domain.City, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cities, err := cache.Cities(ctx, "BR", "BR-SP")
			assert.NoError(t, err)
			results[i] = cities
		}(i)
	}

	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(inner.release)
	wg.Wait()

	assert.Equal(t, int32(1), inner.calls.Load())
	for _, r := range results {
		require.Len(t, r, 1)
		assert.Equal(t, "Campinas", r[0].Name)
	}
}

func TestGeoCache_LoadOutlivesCancelledCaller(t *testing.T) {
	store := newMemStore()
	inner := &contextGeo{countingGeo: countingGeo{release: make(chan struct{})}}
	cache := NewGeoCache(inner, store, time.Minute, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	type result struct {
		countries []domain.Country
		err       error
	}
	done := make(chan result, 1)
	go func() {
		countries, err := cache.Countries(ctx)
		done <- result{countries, err}
	}()

	require.Eventually(t, func() bool { return inner.calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	close(inner.release)
	got := <-done

	require.NoError(t, got.err)
	assert.Equal(t, []domain.Country{brasil}, got.countries)
	assert.True(t, inner.hadDeadline.Load())
	assert.Contains(t, store.data, "geo:countries")
}
