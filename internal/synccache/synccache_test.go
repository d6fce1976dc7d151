package synccache

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbeariaprime/primeapp/internal/domain"
	"github.com/barbeariaprime/primeapp/internal/localcache"
	"github.com/barbeariaprime/primeapp/internal/remote"
)

// fakeRemote is an in-memory remote store with per-table failure injection.
type fakeRemote struct {
	mu       sync.Mutex
	services []domain.BarberService
	products []domain.Product
	shop     *domain.ShopInfo
	profiles map[string]domain.Profile

	failFetch   map[string]bool
	failMutate  map[string]bool
	mutateCalls int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		profiles:   make(map[string]domain.Profile),
		failFetch:  make(map[string]bool),
		failMutate: make(map[string]bool),
	}
}

func (f *fakeRemote) FetchAll(ctx context.Context, table string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFetch[table] {
		return errors.New("connection refused")
	}
	switch d := dest.(type) {
	case *[]domain.BarberService:
		*d = append([]domain.BarberService(nil), f.services...)
	case *[]domain.Product:
		*d = append([]domain.Product(nil), f.products...)
	default:
		return errors.Errorf("unexpected dest for table %s", table)
	}
	return nil
}

func (f *fakeRemote) FetchOne(ctx context.Context, table string, filter map[string]interface{}, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFetch[table] {
		return errors.New("connection refused")
	}
	switch d := dest.(type) {
	case *domain.ShopInfo:
		if f.shop == nil {
			return remote.ErrNotFound
		}
		*d = *f.shop
	case *domain.Profile:
		p, ok := f.profiles[filter["account_id"].(string)]
		if !ok {
			return remote.ErrNotFound
		}
		*d = p
	default:
		return errors.Errorf("unexpected dest for table %s", table)
	}
	return nil
}

func (f *fakeRemote) Upsert(ctx context.Context, table string, row interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutateCalls++
	if f.failMutate[table] {
		return errors.New("permission denied")
	}
	switch r := row.(type) {
	case *domain.BarberService:
		f.services = upsertByID(f.services, *r, func(s domain.BarberService) string { return s.ID })
	case *domain.Product:
		f.products = upsertByID(f.products, *r, func(p domain.Product) string { return p.ID })
	case *domain.ShopInfo:
		cp := *r
		f.shop = &cp
	case *domain.Profile:
		f.profiles[r.AccountID] = *r
	default:
		return errors.Errorf("unexpected row for table %s", table)
	}
	return nil
}

func (f *fakeRemote) Delete(ctx context.Context, table string, filter map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutateCalls++
	if f.failMutate[table] {
		return errors.New("permission denied")
	}
	id := filter["id"].(string)
	switch table {
	case "services":
		f.services = deleteByID(f.services, id, func(s domain.BarberService) string { return s.ID })
	case "products":
		f.products = deleteByID(f.products, id, func(p domain.Product) string { return p.ID })
	}
	return nil
}

func upsertByID[T any](rows []T, row T, id func(T) string) []T {
	for i := range rows {
		if id(rows[i]) == id(row) {
			rows[i] = row
			return rows
		}
	}
	return append(rows, row)
}

func deleteByID[T any](rows []T, target string, id func(T) string) []T {
	for i := range rows {
		if id(rows[i]) == target {
			return append(rows[:i], rows[i+1:]...)
		}
	}
	return rows
}

func newTestCache(t *testing.T, r remote.Store) (*Cache, *localcache.Store) {
	t.Helper()
	local, err := localcache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })
	return New(Options{Remote: r, Local: local}), local
}

func cachedServices(t *testing.T, local *localcache.Store) []domain.BarberService {
	t.Helper()
	value, found, err := local.Get(CacheKeyServices)
	require.NoError(t, err)
	require.True(t, found)
	var rows []domain.BarberService
	require.NoError(t, decodeSnapshot(value, &rows))
	return rows
}

func TestUpsertThenLoadContainsItemOnce(t *testing.T) {
	r := newFakeRemote()
	cache, _ := newTestCache(t, r)
	ctx := context.Background()

	saved, err := cache.UpsertService(ctx, domain.BarberService{Name: "Corte", Price: 40})
	require.NoError(t, err)

	cache.services.Load(ctx)
	var matches int
	for _, s := range cache.Services() {
		if s.ID == saved.ID {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
}

func TestUpsertIdempotent(t *testing.T) {
	r := newFakeRemote()
	cache, _ := newTestCache(t, r)
	ctx := context.Background()

	saved, err := cache.UpsertService(ctx, domain.BarberService{Name: "Barba", Price: 25})
	require.NoError(t, err)
	_, err = cache.UpsertService(ctx, saved)
	require.NoError(t, err)

	var matches int
	for _, s := range cache.Services() {
		if s.ID == saved.ID {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
	assert.Len(t, cache.Services(), 1)
}

func TestDeleteRemovesFromWorkingSetAndSnapshot(t *testing.T) {
	r := newFakeRemote()
	cache, local := newTestCache(t, r)
	ctx := context.Background()

	saved, err := cache.UpsertService(ctx, domain.BarberService{Name: "Corte", Price: 40})
	require.NoError(t, err)
	require.NoError(t, cache.DeleteService(ctx, saved.ID))

	for _, s := range cache.Services() {
		assert.NotEqual(t, saved.ID, s.ID)
	}
	for _, s := range cachedServices(t, local) {
		assert.NotEqual(t, saved.ID, s.ID)
	}

	// deleting an identity that no longer exists is a no-op
	require.NoError(t, cache.DeleteService(ctx, saved.ID))
}

func TestProductsFallbackToLocalSnapshot(t *testing.T) {
	r := newFakeRemote()
	r.products = []domain.Product{{ID: "p1", Name: "Pomada", Price: 30}}
	cache, local := newTestCache(t, r)
	ctx := context.Background()

	cache.products.Load(ctx)
	require.Len(t, cache.Products(), 1)

	// restart with the remote down: the last cached snapshot wins
	r.failFetch["products"] = true
	cache2 := New(Options{Remote: r, Local: local})
	cache2.products.Load(ctx)

	got := cache2.Products()
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "Pomada", got[0].Name)
}

func TestProductsFallbackEmptyWhenNoSnapshot(t *testing.T) {
	r := newFakeRemote()
	r.failFetch["products"] = true
	cache, _ := newTestCache(t, r)

	cache.products.Load(context.Background())
	assert.Empty(t, cache.Products())
}

func TestServicesEmptyRemoteFallsBackToDefaultCatalog(t *testing.T) {
	r := newFakeRemote() // remote reachable but zero services
	cache, _ := newTestCache(t, r)

	cache.services.Load(context.Background())

	got := cache.Services()
	require.Len(t, got, 4)
	prices := map[string]float64{}
	for _, s := range got {
		prices[s.Name] = s.Price
	}
	assert.Equal(t, 35.0, prices["Corte Masculino"])
	assert.Equal(t, 25.0, prices["Barba"])
	assert.Equal(t, 55.0, prices["Corte + Barba"])
	assert.Equal(t, 10.0, prices["Sobrancelha"])
}

func TestServicesEmptyRemotePrefersLocalSnapshot(t *testing.T) {
	r := newFakeRemote()
	r.services = []domain.BarberService{{ID: "s1", Name: "Corte", Price: 40}}
	cache, local := newTestCache(t, r)
	ctx := context.Background()

	cache.services.Load(ctx)
	require.Len(t, cache.Services(), 1)

	// the remote now answers an authoritative-looking empty result
	r.services = nil
	cache2 := New(Options{Remote: r, Local: local})
	cache2.services.Load(ctx)

	got := cache2.Services()
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
}

func TestRoundTripAcrossRestart(t *testing.T) {
	r := newFakeRemote()
	cache, local := newTestCache(t, r)
	ctx := context.Background()

	_, err := cache.UpsertService(ctx, domain.BarberService{Name: "Corte", Price: 40})
	require.NoError(t, err)
	_, err = cache.UpsertService(ctx, domain.BarberService{Name: "Barba", Price: 25})
	require.NoError(t, err)
	before := cache.Services()

	// simulated restart with the remote store forced to fail
	r.failFetch["services"] = true
	cache2 := New(Options{Remote: r, Local: local})
	cache2.services.Load(ctx)

	after := cache2.Services()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Name, after[i].Name)
		assert.Equal(t, before[i].Price, after[i].Price)
	}
}

func TestAdminAddServiceAssignsIdentity(t *testing.T) {
	r := newFakeRemote()
	cache, local := newTestCache(t, r)

	saved, err := cache.UpsertService(context.Background(), domain.BarberService{Name: "Corte", Price: 40})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Len(t, cache.Services(), 1)

	var found bool
	for _, s := range cachedServices(t, local) {
		if s.ID == saved.ID {
			found = true
		}
	}
	assert.True(t, found, "local snapshot must include the new service")
}

func TestUpsertRejectsNonPositivePrice(t *testing.T) {
	r := newFakeRemote()
	cache, _ := newTestCache(t, r)

	_, err := cache.UpsertService(context.Background(), domain.BarberService{Name: "Corte", Price: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Empty(t, cache.Services())
	assert.Zero(t, r.mutateCalls, "validation must reject before any remote call")
}

func TestRemoteMutationFailureLeavesStateUntouched(t *testing.T) {
	r := newFakeRemote()
	cache, local := newTestCache(t, r)
	ctx := context.Background()

	saved, err := cache.UpsertService(ctx, domain.BarberService{Name: "Corte", Price: 40})
	require.NoError(t, err)

	r.failMutate["services"] = true
	_, err = cache.UpsertService(ctx, domain.BarberService{Name: "Barba", Price: 25})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteMutation))

	assert.Len(t, cache.Services(), 1)
	snapshot := cachedServices(t, local)
	require.Len(t, snapshot, 1)
	assert.Equal(t, saved.ID, snapshot[0].ID)

	err = cache.DeleteService(ctx, saved.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteMutation))
	assert.Len(t, cache.Services(), 1)
}

func TestMalformedSnapshotDiscarded(t *testing.T) {
	r := newFakeRemote()
	r.failFetch["services"] = true
	local, err := localcache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = local.Close() }()
	require.NoError(t, local.Set(CacheKeyServices, `{"not":"a list"}`))

	cache := New(Options{Remote: r, Local: local})
	cache.services.Load(context.Background())

	// malformed data never reaches the working set; defaults take over
	assert.Len(t, cache.Services(), 4)
}

func TestMemoryOnlyWhenLocalCacheUnavailable(t *testing.T) {
	r := newFakeRemote()
	cache := New(Options{Remote: r, Local: nil})
	ctx := context.Background()

	// every path must degrade to memory-only instead of panicking
	cache.Start(ctx)
	assert.Len(t, cache.Services(), 4)
	assert.Equal(t, "Barbearia Prime", cache.ShopInfo().Name)

	saved, err := cache.UpsertService(ctx, domain.BarberService{Name: "Luzes", Price: 80})
	require.NoError(t, err)
	require.NoError(t, cache.DeleteService(ctx, saved.ID))

	r.failFetch["products"] = true
	cache.products.Load(ctx)
	assert.Empty(t, cache.Products())

	cache.RewriteSnapshots()
}

func TestShopInfoDefaultsWhenUnreachable(t *testing.T) {
	r := newFakeRemote()
	r.failFetch["barbershop_info"] = true
	cache, _ := newTestCache(t, r)

	cache.shop.Load(context.Background())
	info := cache.ShopInfo()
	assert.Equal(t, "Barbearia Prime", info.Name)
	assert.Equal(t, "5577988618862", info.Whatsapp)
}

func TestShopInfoSaveIsUpsertOnFixedID(t *testing.T) {
	r := newFakeRemote()
	cache, _ := newTestCache(t, r)
	ctx := context.Background()

	info := cache.ShopInfo()
	info.Name = "Barbearia Prime II"
	info.ID = 99 // callers cannot move the singleton off its fixed id
	require.NoError(t, cache.SaveShopInfo(ctx, info))

	assert.Equal(t, domain.ShopInfoID, cache.ShopInfo().ID)
	assert.Equal(t, "Barbearia Prime II", cache.ShopInfo().Name)

	info.Name = "Barbearia Prime III"
	require.NoError(t, cache.SaveShopInfo(ctx, info))
	assert.Equal(t, "Barbearia Prime III", r.shop.Name)
}

func TestChangeNotificationPublished(t *testing.T) {
	r := newFakeRemote()
	cache, _ := newTestCache(t, r)

	var mu sync.Mutex
	var notified [][]domain.BarberService
	err := cache.Bus().Subscribe(TopicServices, func(items []domain.BarberService) {
		mu.Lock()
		notified = append(notified, items)
		mu.Unlock()
	})
	require.NoError(t, err)

	_, err = cache.UpsertService(context.Background(), domain.BarberService{Name: "Corte", Price: 40})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, notified)
	assert.Len(t, notified[len(notified)-1], 1)
}
