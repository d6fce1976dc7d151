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
	"github.com/barbeariaprime/primeapp/pkg/common"
)

// profileState is the profile half of the cache: it tracks the working
// profile of the signed-in account and follows session lifecycle signals.
type profileState struct {
	remote  remote.Store
	local   *localcache.Store
	bus     EventBus.Bus
	timeout time.Duration

	mu      sync.Mutex
	profile domain.Profile
}

func newProfileState(r remote.Store, l *localcache.Store, bus EventBus.Bus, timeout time.Duration) *profileState {
	return &profileState{remote: r, local: l, bus: bus, timeout: timeout}
}

// Load fetches the profile row for accountID. Absence or failure resets the
// working profile to its empty defaults; a stale profile from a previous
// account must never survive a failed load.
func (p *profileState) Load(ctx context.Context, accountID string) {
	fctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var row domain.Profile
	err := p.remote.FetchOne(fctx, domain.Profile{}.TableName(),
		map[string]interface{}{"account_id": accountID}, &row)
	if err != nil {
		if !errors.Is(err, remote.ErrNotFound) {
			zap.L().Warn("synccache: profile fetch failed", zap.String("account_id", accountID), zap.Error(err))
		}
		p.adopt(domain.Profile{}, false)
		return
	}
	p.adopt(row, false)
}

// Fetch returns the profile row for accountID without going through the
// shared working profile, so concurrent callers for different accounts never
// observe each other's data. Absence yields empty defaults; a remote failure
// falls back to the local copy only when it belongs to the same account.
func (p *profileState) Fetch(ctx context.Context, accountID string) (domain.Profile, error) {
	fctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var row domain.Profile
	err := p.remote.FetchOne(fctx, domain.Profile{}.TableName(),
		map[string]interface{}{"account_id": accountID}, &row)
	if err == nil {
		return row, nil
	}
	if errors.Is(err, remote.ErrNotFound) {
		return domain.Profile{AccountID: accountID}, nil
	}
	zap.L().Warn("synccache: profile fetch failed", zap.String("account_id", accountID), zap.Error(err))
	if p.local != nil {
		if value, found, lerr := p.local.Get(CacheKeyProfile); lerr == nil && found {
			var cached domain.Profile
			if derr := decodeSnapshot(value, &cached); derr == nil && cached.AccountID == accountID {
				return cached, nil
			}
		}
	}
	return domain.Profile{}, errors.Wrapf(ErrRemoteUnavailable, "fetch profile for %s: %v", accountID, err)
}

// Save validates required fields, upserts the row keyed by accountID, then
// persists a local copy for the fast path and republishes.
func (p *profileState) Save(ctx context.Context, accountID string, profile domain.Profile) error {
	if common.EmptyAny(profile.Name, profile.Phone, profile.Address,
		profile.Neighborhood, profile.City, profile.HouseNumber) {
		return errors.Wrap(ErrValidation, "all required profile fields must be filled in")
	}
	profile.AccountID = accountID
	profile.UpdatedAt = time.Now()

	fctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.remote.Upsert(fctx, domain.Profile{}.TableName(), &profile); err != nil {
		zap.L().Error("synccache: profile upsert failed", zap.String("account_id", accountID), zap.Error(err))
		return errors.Wrapf(ErrRemoteMutation, "save profile: %v", err)
	}
	p.adopt(profile, true)
	return nil
}

// Reset clears the working profile on session teardown. No remote data is
// touched.
func (p *profileState) Reset() {
	p.mu.Lock()
	p.profile = domain.Profile{}
	p.mu.Unlock()
	p.publish()
}

func (p *profileState) Profile() domain.Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile
}

func (p *profileState) adopt(profile domain.Profile, persist bool) {
	p.mu.Lock()
	p.profile = profile
	if persist && p.local != nil {
		value, err := encodeSnapshot(profile)
		if err == nil {
			err = p.local.Set(CacheKeyProfile, value)
		}
		if err != nil {
			zap.L().Warn("synccache: profile snapshot write failed", zap.Error(err))
		}
	}
	p.mu.Unlock()
	p.publish()
}

func (p *profileState) publish() {
	p.bus.Publish(TopicProfile, p.Profile())
}
