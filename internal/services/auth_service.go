package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/dto"
	wmail "github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/mail"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/wishlist-backend/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var errInvalidCredentials = apperr.Unauthenticated("Invalid credentials")

type AuthService struct {
	store  store.Store
	tokens *auth.TokenIssuer
	mailer wmail.Mailer
	cfg    *config.Config
}

func NewAuthService(st store.Store, tokens *auth.TokenIssuer, mailer wmail.Mailer, cfg *config.Config) *AuthService {
	return &AuthService{store: st, tokens: tokens, mailer: mailer, cfg: cfg}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperr.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}

// Register creates an unapproved account. Addresses listed in ADMIN_EMAILS
// start approved with admin rights so a fresh install has someone to approve others.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("a valid email is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("email_taken", "User already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	bootstrap := s.cfg.IsBootstrapAdmin(email)
	user := models.User{
		Email:      email,
		Password:   string(hash),
		Name:       name,
		IsAdmin:    bootstrap,
		IsApproved: bootstrap,
		IsActive:   true,
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Conflict("email_taken", "User already exists")
		}
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "bootstrap_admin", bootstrap)
	resp := userResponse(&user)
	return &resp, nil
}

// Login checks the password before account state so that approval status is
// not disclosed to someone who does not know the password.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	if err := policy.CanLogin(user).Err(); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, auth.PurposeAccess)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to sign token: %w", err))
	}
	return &dto.AuthResponse{Token: token, User: userResponse(user)}, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) (*dto.ForgotPasswordResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, auth.PurposeReset)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to sign reset token: %w", err))
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, token); err != nil {
		return nil, apperr.Internal(err)
	}

	resp := &dto.ForgotPasswordResponse{Message: "Password reset token generated"}
	if s.cfg.ExposeResetToken {
		resp.ResetToken = token
	}
	return resp, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	userID, err := s.tokens.Verify(req.Token, auth.PurposeReset)
	if err != nil {
		return apperr.Unauthenticated("Invalid or expired reset token")
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	if err := s.store.SetUserPassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	slog.Info("password reset", "user_id", userID)
	return nil
}

// Authenticate resolves the subject of a verified access token to a user that
// may act right now. It runs on every request, so deactivation takes effect
// without waiting for the token to expire.
func (s *AuthService) Authenticate(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if err := policy.CanAuthenticate(user).Err(); err != nil {
		return nil, err
	}
	return user, nil
}
