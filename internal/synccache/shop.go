package synccache

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/barbeariaprime/primeapp/internal/domain"
	"github.com/barbeariaprime/primeapp/internal/localcache"
	"github.com/barbeariaprime/primeapp/internal/remote"
)

// shopState syncs the ShopInfo singleton row. The working copy starts at the
// built-in defaults and is replaced by remote or cached data when available.
type shopState struct {
	remote  remote.Store
	local   *localcache.Store
	bus     EventBus.Bus
	timeout time.Duration

	mu   sync.Mutex
	info domain.ShopInfo
}

func newShopState(r remote.Store, l *localcache.Store, bus EventBus.Bus, timeout time.Duration) *shopState {
	return &shopState{
		remote:  r,
		local:   l,
		bus:     bus,
		timeout: timeout,
		info:    domain.DefaultShopInfo(),
	}
}

func (s *shopState) Load(ctx context.Context) {
	fctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var info domain.ShopInfo
	err := s.remote.FetchOne(fctx, domain.ShopInfo{}.TableName(),
		map[string]interface{}{"id": domain.ShopInfoID}, &info)
	if err == nil {
		s.adopt(info, true)
		return
	}
	if !errors.Is(err, remote.ErrNotFound) {
		zap.L().Warn("synccache: shop info fetch failed, using local fallback", zap.Error(err))
	}

	if s.local != nil {
		value, found, lerr := s.local.Get(CacheKeyShopInfo)
		if lerr == nil && found {
			var cached domain.ShopInfo
			if derr := decodeSnapshot(value, &cached); derr == nil {
				s.adopt(cached, false)
				return
			}
			zap.L().Warn("synccache: discarding malformed shop info snapshot")
		}
	}
	// keep the built-in defaults
	s.publish()
}

// Save upserts the singleton row keyed by the fixed synthetic id.
func (s *shopState) Save(ctx context.Context, info domain.ShopInfo) error {
	info.ID = domain.ShopInfoID
	if info.UpdatedAt.IsZero() {
		info.UpdatedAt = time.Now()
	}

	fctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.remote.Upsert(fctx, domain.ShopInfo{}.TableName(), &info); err != nil {
		zap.L().Error("synccache: shop info upsert failed", zap.Error(err))
		return errors.Wrapf(ErrRemoteMutation, "save shop info: %v", err)
	}
	s.adopt(info, true)
	return nil
}

func (s *shopState) Info() domain.ShopInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

func (s *shopState) RewriteSnapshot() {
	s.mu.Lock()
	s.persistLocalLocked()
	s.mu.Unlock()
}

func (s *shopState) adopt(info domain.ShopInfo, persist bool) {
	s.mu.Lock()
	s.info = info
	if persist {
		s.persistLocalLocked()
	}
	s.mu.Unlock()
	s.publish()
}

func (s *shopState) persistLocalLocked() {
	if s.local == nil {
		return
	}
	value, err := encodeSnapshot(s.info)
	if err != nil {
		zap.L().Warn("synccache: shop info snapshot encode failed", zap.Error(err))
		return
	}
	if err := s.local.Set(CacheKeyShopInfo, value); err != nil {
		zap.L().Warn("synccache: shop info snapshot write failed", zap.Error(err))
	}
}

func (s *shopState) publish() {
	s.bus.Publish(TopicShopInfo, s.Info())
}
