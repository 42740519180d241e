package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeImages struct {
	uri  string
	ok   bool
	urls []string
}

func (f *fakeImages) Normalize(ctx context.Context, url string) (string, bool) {
	f.urls = append(f.urls, url)
	return f.uri, f.ok
}

type sentMail struct {
	to, token string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, token: token})
	return nil
}

type env struct {
	ctx       context.Context
	store     *store.MemoryStore
	cfg       *config.Config
	tokens    *auth.TokenIssuer
	mailer    *fakeMailer
	images    *fakeImages
	auth      *AuthService
	users     *UserService
	wishlists *WishlistService
	items     *ItemService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := store.NewMemoryStore()
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		AdminEmails:      "root@example.com",
		AppEnv:           "development",
		ExposeResetToken: true,
	}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Hour, time.Hour)
	mailer := &fakeMailer{}
	images := &fakeImages{uri: "data:image/jpeg;base64,AAAA", ok: true}
	return &env{
		ctx:       context.Background(),
		store:     st,
		cfg:       cfg,
		tokens:    tokens,
		mailer:    mailer,
		images:    images,
		auth:      NewAuthService(st, tokens, mailer, cfg),
		users:     NewUserService(st),
		wishlists: NewWishlistService(st),
		items:     NewItemService(st, images, NewModerationService()),
	}
}

// user inserts an approved, active account directly into the store.
func (e *env) user(t *testing.T, name string, mutate ...func(u *models.User)) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Email:      name + "@example.com",
		Name:       name,
		Password:   string(hash),
		IsApproved: true,
		IsActive:   true,
	}
	for _, m := range mutate {
		m(u)
	}
	require.NoError(t, e.store.CreateUser(e.ctx, u))
	return u
}

func (e *env) wishlist(t *testing.T, owner *models.User, name string) *dto.WishlistResponse {
	t.Helper()
	w, err := e.wishlists.Create(e.ctx, owner, &dto.CreateWishlistRequest{Name: name})
	require.NoError(t, err)
	return w
}

func (e *env) item(t *testing.T, owner *models.User, w *dto.WishlistResponse, name string) *dto.ItemResponse {
	t.Helper()
	it, err := e.items.Create(e.ctx, owner, &dto.CreateItemRequest{WishlistID: w.ID, Name: name})
	require.NoError(t, err)
	return it
}

func asAdmin(u *models.User) { u.IsAdmin = true }

func assertAppErr(t *testing.T, err error, kind error, reason string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "want kind %v, got %v", kind, err)
	assert.Equal(t, reason, apperr.Reason(err))
}
