package synccache

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbeariaprime/primeapp/internal/domain"
	"github.com/barbeariaprime/primeapp/internal/remote"
)

// fakeAuth drives session lifecycle signals without a real auth backend.
type fakeAuth struct {
	listeners []remote.SessionListener
	current   *remote.Session
}

func (f *fakeAuth) SignIn(ctx context.Context, identifier, secret string) (*remote.Session, error) {
	return nil, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, identifier, secret string, attrs remote.SignupAttrs) (*remote.Session, error) {
	return nil, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error { return nil }

func (f *fakeAuth) CurrentSession() *remote.Session { return f.current }

func (f *fakeAuth) OnSessionChange(fn remote.SessionListener) {
	f.listeners = append(f.listeners, fn)
}

func (f *fakeAuth) fire(sess *remote.Session) {
	f.current = sess
	for _, fn := range f.listeners {
		fn(sess)
	}
}

func completeProfile(accountID string) domain.Profile {
	return domain.Profile{
		AccountID:    accountID,
		Name:         "João",
		Phone:        "5577999990000",
		Address:      "Rua A",
		Neighborhood: "Centro",
		City:         "Cidade Exemplo",
		HouseNumber:  "10",
	}
}

func TestSessionEstablishedLoadsProfile(t *testing.T) {
	r := newFakeRemote()
	r.profiles["acc1"] = completeProfile("acc1")
	cache, _ := newTestCache(t, r)

	auth := &fakeAuth{}
	cache.BindAuth(auth)

	auth.fire(&remote.Session{AccountID: "acc1"})
	assert.Equal(t, "João", cache.Profile().Name)
	assert.Equal(t, "5577999990000", cache.Profile().Phone)
}

func TestSessionClearedResetsProfileOnly(t *testing.T) {
	r := newFakeRemote()
	r.profiles["acc1"] = completeProfile("acc1")
	r.services = []domain.BarberService{{ID: "s1", Name: "Corte", Price: 40}}
	cache, _ := newTestCache(t, r)
	cache.services.Load(context.Background())

	auth := &fakeAuth{}
	cache.BindAuth(auth)
	auth.fire(&remote.Session{AccountID: "acc1"})
	require.Equal(t, "João", cache.Profile().Name)

	auth.fire(nil)
	assert.Equal(t, domain.Profile{}, cache.Profile())
	// collection state is untouched by session teardown
	assert.Len(t, cache.Services(), 1)
}

func TestProfileAbsenceLeavesEmptyDefaults(t *testing.T) {
	r := newFakeRemote()
	cache, _ := newTestCache(t, r)

	cache.LoadProfile(context.Background(), "nobody")
	assert.Equal(t, domain.Profile{}, cache.Profile())
}

func TestSaveProfileRequiresFields(t *testing.T) {
	r := newFakeRemote()
	cache, _ := newTestCache(t, r)

	p := completeProfile("acc1")
	p.City = ""
	err := cache.SaveProfile(context.Background(), "acc1", p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Zero(t, r.mutateCalls)
}

func TestSaveProfilePersistsLocalCopy(t *testing.T) {
	r := newFakeRemote()
	cache, local := newTestCache(t, r)

	require.NoError(t, cache.SaveProfile(context.Background(), "acc1", completeProfile("acc1")))

	value, found, err := local.Get(CacheKeyProfile)
	require.NoError(t, err)
	require.True(t, found)
	var cached domain.Profile
	require.NoError(t, decodeSnapshot(value, &cached))
	assert.Equal(t, "João", cached.Name)
	assert.Equal(t, "acc1", cached.AccountID)

	// remote row exists with the same key
	assert.Equal(t, "João", r.profiles["acc1"].Name)
}

func TestLoadFailureResetsWorkingProfile(t *testing.T) {
	r := newFakeRemote()
	r.profiles["accA"] = completeProfile("accA")
	cache, _ := newTestCache(t, r)
	ctx := context.Background()

	cache.LoadProfile(ctx, "accA")
	require.Equal(t, "accA", cache.Profile().AccountID)

	// a failed load for another account must not leave accA's data behind
	r.failFetch["profiles"] = true
	cache.LoadProfile(ctx, "accB")
	assert.Equal(t, domain.Profile{}, cache.Profile())
}

func TestFetchProfileIsAccountScoped(t *testing.T) {
	r := newFakeRemote()
	r.profiles["accA"] = completeProfile("accA")
	profileB := completeProfile("accB")
	profileB.Name = "Maria"
	r.profiles["accB"] = profileB
	cache, _ := newTestCache(t, r)
	ctx := context.Background()

	// the shared working profile belongs to accA
	cache.LoadProfile(ctx, "accA")
	require.Equal(t, "accA", cache.Profile().AccountID)

	got, err := cache.FetchProfile(ctx, "accB")
	require.NoError(t, err)
	assert.Equal(t, "accB", got.AccountID)
	assert.Equal(t, "Maria", got.Name)

	// absence yields empty defaults, not someone else's row
	got, err = cache.FetchProfile(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, got.Name)
}

func TestFetchProfileOutageNeverLeaksAnotherAccount(t *testing.T) {
	r := newFakeRemote()
	cache, _ := newTestCache(t, r)
	ctx := context.Background()

	// accA saved a profile, so the local copy on disk belongs to accA
	require.NoError(t, cache.SaveProfile(ctx, "accA", completeProfile("accA")))

	r.failFetch["profiles"] = true

	got, err := cache.FetchProfile(ctx, "accA")
	require.NoError(t, err)
	assert.Equal(t, "accA", got.AccountID)

	_, err = cache.FetchProfile(ctx, "accB")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRemoteUnavailable))
}

func TestProfileCompleteness(t *testing.T) {
	p := completeProfile("acc1")
	assert.True(t, p.Complete())
	p.Complement = "" // optional
	assert.True(t, p.Complete())
	p.HouseNumber = ""
	assert.False(t, p.Complete())
}
