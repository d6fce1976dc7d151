package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/barbeariaprime/primeapp/internal/domain"
)

func newTestAuth(t *testing.T) (*AuthClient, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().AutoMigrate(&domain.Account{}, &domain.Profile{}))
	t.Cleanup(func() {
		_ = db.Migrator().DropTable(&domain.Account{}, &domain.Profile{})
	})
	return NewAuthClient(db, "test-secret"), db
}

func TestSignUpCreatesAccountAndPairedProfile(t *testing.T) {
	auth, db := newTestAuth(t)

	sess, err := auth.SignUp(context.Background(), "joao@example.com", "s3cret", SignupAttrs{
		Name:  "João",
		Phone: "5577999990000",
	})
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "joao@example.com", sess.Email)
	assert.NotEmpty(t, sess.Token)

	var profile domain.Profile
	require.NoError(t, db.Where("account_id = ?", sess.AccountID).First(&profile).Error)
	assert.Equal(t, "João", profile.Name)
	assert.Equal(t, "5577999990000", profile.Phone)
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	auth, _ := newTestAuth(t)

	_, err := auth.SignUp(context.Background(), "dup@example.com", "s3cret", SignupAttrs{})
	require.NoError(t, err)

	_, err = auth.SignUp(context.Background(), "dup@example.com", "other", SignupAttrs{})
	assert.ErrorIs(t, err, ErrAuth)
}

func TestSignInByEmailAndPhone(t *testing.T) {
	auth, _ := newTestAuth(t)
	_, err := auth.SignUp(context.Background(), "maria@example.com", "s3cret", SignupAttrs{Phone: "5577888880000"})
	require.NoError(t, err)
	require.NoError(t, auth.SignOut(context.Background()))

	sess, err := auth.SignIn(context.Background(), "maria@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", sess.Email)

	sess, err = auth.SignIn(context.Background(), "5577888880000", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", sess.Email)
}

func TestSignInRejectsBadPassword(t *testing.T) {
	auth, _ := newTestAuth(t)
	_, err := auth.SignUp(context.Background(), "ana@example.com", "s3cret", SignupAttrs{})
	require.NoError(t, err)

	_, err = auth.SignIn(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuth)
}

func TestSessionListenersFireOnSignInAndOut(t *testing.T) {
	auth, _ := newTestAuth(t)

	var events []*Session
	auth.OnSessionChange(func(sess *Session) {
		events = append(events, sess)
	})

	_, err := auth.SignUp(context.Background(), "leo@example.com", "s3cret", SignupAttrs{})
	require.NoError(t, err)
	require.NoError(t, auth.SignOut(context.Background()))

	require.Len(t, events, 2)
	assert.NotNil(t, events[0])
	assert.Nil(t, events[1])
	assert.Nil(t, auth.CurrentSession())
}

func TestParseTokenRoundTrip(t *testing.T) {
	auth, _ := newTestAuth(t)
	sess, err := auth.SignUp(context.Background(), "rui@example.com", "s3cret", SignupAttrs{})
	require.NoError(t, err)

	parsed, err := auth.ParseToken(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.AccountID, parsed.AccountID)
	assert.Equal(t, sess.Email, parsed.Email)

	_, err = auth.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrAuth)
}
