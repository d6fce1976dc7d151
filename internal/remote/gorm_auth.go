package remote

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/barbeariaprime/primeapp/internal/domain"
	"github.com/barbeariaprime/primeapp/pkg/common"
)

const sessionTTL = 24 * time.Hour

// AuthClient implements Auth over the accounts table. Sessions are stateless
// JWT tokens; the currently established session is held in memory and
// listeners are notified on every change, mirroring how the mobile client
// observed its auth provider.
type AuthClient struct {
	db     *gorm.DB
	secret []byte

	mu        sync.RWMutex
	current   *Session
	listeners []SessionListener
}

func NewAuthClient(db *gorm.DB, secret string) *AuthClient {
	return &AuthClient{db: db, secret: []byte(secret)}
}

func (a *AuthClient) SignIn(ctx context.Context, identifier, secret string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, errors.Wrap(ErrAuth, "identifier and password are required")
	}

	var account domain.Account
	err := a.db.WithContext(ctx).
		Where("email = ? OR phone = ?", identifier, identifier).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(ErrAuth, "invalid credentials")
	}
	if err != nil {
		return nil, errors.Wrap(err, "query account")
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(secret)) != nil {
		return nil, errors.Wrap(ErrAuth, "invalid credentials")
	}

	sess, err := a.issueSession(&account)
	if err != nil {
		return nil, err
	}
	a.setSession(sess)
	zap.L().Info("auth: signed in", zap.String("account_id", account.ID))
	return sess, nil
}

func (a *AuthClient) SignUp(ctx context.Context, identifier, secret string, attrs SignupAttrs) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, errors.Wrap(ErrAuth, "identifier and password are required")
	}

	var count int64
	if err := a.db.WithContext(ctx).Model(&domain.Account{}).
		Where("email = ?", identifier).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "check existing account")
	}
	if count > 0 {
		return nil, errors.Wrap(ErrAuth, "account already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	account := domain.Account{
		ID:           common.UUID(),
		Email:        identifier,
		Phone:        attrs.Phone,
		PasswordHash: string(hash),
	}
	profile := domain.Profile{
		AccountID: account.ID,
		Name:      attrs.Name,
		Phone:     attrs.Phone,
	}

	// Account and its paired profile are created together.
	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		return tx.Create(&profile).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, "create account")
	}

	sess, err := a.issueSession(&account)
	if err != nil {
		return nil, err
	}
	a.setSession(sess)
	zap.L().Info("auth: account created", zap.String("account_id", account.ID))
	return sess, nil
}

func (a *AuthClient) SignOut(ctx context.Context) error {
	a.setSession(nil)
	zap.L().Info("auth: signed out")
	return nil
}

func (a *AuthClient) CurrentSession() *Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

func (a *AuthClient) OnSessionChange(fn SessionListener) {
	a.mu.Lock()
	a.listeners = append(a.listeners, fn)
	a.mu.Unlock()
}

// ParseToken validates a bearer token and returns the session it encodes.
func (a *AuthClient) ParseToken(token string) (*Session, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.Wrap(ErrAuth, "invalid session token")
	}
	return &Session{
		AccountID: claims.Subject,
		Email:     claims.Issuer,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (a *AuthClient) issueSession(account *domain.Account) (*Session, error) {
	expires := time.Now().Add(sessionTTL)
	claims := jwt.RegisteredClaims{
		Subject:   account.ID,
		Issuer:    account.Email,
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, errors.Wrap(err, "sign session token")
	}
	return &Session{
		AccountID: account.ID,
		Email:     account.Email,
		Token:     token,
		ExpiresAt: expires,
	}, nil
}

func (a *AuthClient) setSession(sess *Session) {
	a.mu.Lock()
	a.current = sess
	listeners := append([]SessionListener(nil), a.listeners...)
	a.mu.Unlock()
	for _, fn := range listeners {
		fn(sess)
	}
}
