// Package synccache keeps in-memory working sets for the shop catalog,
// shop metadata and the signed-in customer's profile consistent with the
// remote store, while guaranteeing the app stays usable when the remote is
// unreachable: fetches degrade to a durable local snapshot, mutations are
// write-through and fail loudly without touching local state.
package synccache

import (
	"context"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/barbeariaprime/primeapp/internal/domain"
	"github.com/barbeariaprime/primeapp/internal/localcache"
	"github.com/barbeariaprime/primeapp/internal/remote"
	"github.com/barbeariaprime/primeapp/pkg/common"
)

// Local cache namespace keys, one per collection. These match the storage
// keys of the shipped mobile clients and must not change.
const (
	CacheKeyServices = "barbearia_prime_services"
	CacheKeyProducts = "barbearia_prime_products"
	CacheKeyShopInfo = "barbearia_prime_info"
	CacheKeyProfile  = "barbearia_prime_profile"
)

// EventBus topics published after every adopted change.
const (
	TopicServices = "synccache.services.changed"
	TopicProducts = "synccache.products.changed"
	TopicShopInfo = "synccache.shopinfo.changed"
	TopicProfile  = "synccache.profile.changed"
)

const defaultRemoteTimeout = 10 * time.Second

// Options configures a Cache.
type Options struct {
	Remote        remote.Store
	Local         *localcache.Store
	Bus           EventBus.Bus
	RemoteTimeout time.Duration
}

// Cache owns one working set per collection plus the profile singleton.
// It is constructed once at application start and injected into consumers.
type Cache struct {
	bus      EventBus.Bus
	services *Collection[domain.BarberService]
	products *Collection[domain.Product]
	shop     *shopState
	profile  *profileState
}

func New(opts Options) *Cache {
	if opts.Bus == nil {
		opts.Bus = EventBus.New()
	}
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = defaultRemoteTimeout
	}
	c := &Cache{bus: opts.Bus}
	c.services = &Collection[domain.BarberService]{
		table:    domain.BarberService{}.TableName(),
		cacheKey: CacheKeyServices,
		topic:    TopicServices,
		remote:   opts.Remote,
		local:    opts.Local,
		bus:      opts.Bus,
		timeout:  opts.RemoteTimeout,
		defaults: domain.DefaultCatalog(),
		// Deployed clients expect the default catalog when the services
		// table is empty, so an empty success is not authoritative.
		emptyNotAuthoritative: true,
	}
	c.products = &Collection[domain.Product]{
		table:    domain.Product{}.TableName(),
		cacheKey: CacheKeyProducts,
		topic:    TopicProducts,
		remote:   opts.Remote,
		local:    opts.Local,
		bus:      opts.Bus,
		timeout:  opts.RemoteTimeout,
	}
	c.shop = newShopState(opts.Remote, opts.Local, opts.Bus, opts.RemoteTimeout)
	c.profile = newProfileState(opts.Remote, opts.Local, opts.Bus, opts.RemoteTimeout)
	return c
}

// Bus exposes the event bus so consumers can subscribe to change topics.
func (c *Cache) Bus() EventBus.Bus {
	return c.bus
}

// Start loads every collection. Fetch failures degrade to the local snapshot
// path, so Start never fails.
func (c *Cache) Start(ctx context.Context) {
	c.Refresh(ctx)
	zap.L().Info("synccache: initial load complete",
		zap.Int("services", len(c.Services())),
		zap.Int("products", len(c.Products())))
}

// Refresh re-runs the load path for all collections.
func (c *Cache) Refresh(ctx context.Context) {
	c.services.Load(ctx)
	c.products.Load(ctx)
	c.shop.Load(ctx)
}

// RewriteSnapshots persists every working set to the local cache.
func (c *Cache) RewriteSnapshots() {
	c.services.RewriteSnapshot()
	c.products.RewriteSnapshot()
	c.shop.RewriteSnapshot()
}

// BindAuth couples the profile half to the session lifecycle: established
// sessions trigger a profile load, cleared sessions reset the working profile.
func (c *Cache) BindAuth(auth remote.Auth) {
	auth.OnSessionChange(func(sess *remote.Session) {
		if sess != nil {
			c.profile.Load(context.Background(), sess.AccountID)
			return
		}
		c.profile.Reset()
	})
}

// Services returns the services working set.
func (c *Cache) Services() []domain.BarberService {
	return c.services.Items()
}

// GetService returns one service by identity.
func (c *Cache) GetService(id string) (domain.BarberService, bool) {
	return c.services.Get(id)
}

// UpsertService validates, assigns an identity when missing, and writes
// through. A non-positive price or empty name is rejected before any remote
// call.
func (c *Cache) UpsertService(ctx context.Context, svc domain.BarberService) (domain.BarberService, error) {
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" || svc.Price <= 0 {
		return svc, errors.Wrap(ErrValidation, "name and a positive price are required")
	}
	if svc.ID == "" {
		svc.ID = common.UUID()
		svc.CreatedAt = time.Now()
	}
	svc.UpdatedAt = time.Now()
	if err := c.services.Upsert(ctx, svc); err != nil {
		return svc, err
	}
	return svc, nil
}

// DeleteService deletes by identity, remote first.
func (c *Cache) DeleteService(ctx context.Context, id string) error {
	return c.services.Delete(ctx, id)
}

// Products returns the products working set.
func (c *Cache) Products() []domain.Product {
	return c.products.Items()
}

// GetProduct returns one product by identity.
func (c *Cache) GetProduct(id string) (domain.Product, bool) {
	return c.products.Get(id)
}

// UpsertProduct mirrors UpsertService for the products collection.
func (c *Cache) UpsertProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.Price <= 0 {
		return p, errors.Wrap(ErrValidation, "name and a positive price are required")
	}
	if p.ID == "" {
		p.ID = common.UUID()
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	if err := c.products.Upsert(ctx, p); err != nil {
		return p, err
	}
	return p, nil
}

// DeleteProduct deletes by identity, remote first.
func (c *Cache) DeleteProduct(ctx context.Context, id string) error {
	return c.products.Delete(ctx, id)
}

// ShopInfo returns the working shop metadata.
func (c *Cache) ShopInfo() domain.ShopInfo {
	return c.shop.Info()
}

// SaveShopInfo upserts the singleton shop row.
func (c *Cache) SaveShopInfo(ctx context.Context, info domain.ShopInfo) error {
	if strings.TrimSpace(info.Name) == "" {
		return errors.Wrap(ErrValidation, "shop name is required")
	}
	return c.shop.Save(ctx, info)
}

// Profile returns the working profile of the signed-in account.
func (c *Cache) Profile() domain.Profile {
	return c.profile.Profile()
}

// LoadProfile fetches and adopts the profile row for accountID.
func (c *Cache) LoadProfile(ctx context.Context, accountID string) {
	c.profile.Load(ctx, accountID)
}

// FetchProfile returns the profile row for accountID without touching the
// working profile. Request-scoped consumers use this so accounts never see
// each other's data through the shared slot.
func (c *Cache) FetchProfile(ctx context.Context, accountID string) (domain.Profile, error) {
	return c.profile.Fetch(ctx, accountID)
}

// SaveProfile validates and writes through the profile row for accountID.
func (c *Cache) SaveProfile(ctx context.Context, accountID string, profile domain.Profile) error {
	return c.profile.Save(ctx, accountID, profile)
}
