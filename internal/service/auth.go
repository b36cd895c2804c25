package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/events"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/hash"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/logging"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/models"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/repo"
	"github.com/Ian-C-Mendoza/Ecommerce-Vid-sub001/internal/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *events.Producer
}

// dummyPasswordHash keeps the unknown-email login path doing the same
// bcrypt work as a real password check.
var dummyPasswordHash = func() string {
	h, err := hash.HashPassword("not-a-real-password")
	if err != nil {
		panic(err)
	}
	return h
}()

type AuthResult struct {
	User         models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) issueAccess(userID uint, role models.Role) (string, time.Time, error) {
	exp := time.Now().Add(tokens.AccessTTL)
	token, err := tokens.SignAccess(userID, string(role), s.JWTSecret, exp)
	return token, exp, err
}

func (s *AuthService) issueRefresh(ctx context.Context, userID uint) (string, time.Time, error) {
	exp := time.Now().Add(tokens.RefreshTTL)
	token, err := tokens.SignRefresh(userID, s.RefreshSecret, exp)
	if err != nil {
		return "", exp, err
	}

	claims, err := tokens.ParseRefresh(token, s.RefreshSecret)
	if err != nil {
		return "", exp, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, token, claims.ID, userID, exp); err != nil {
		return "", exp, err
	}
	return token, exp, nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password string, role models.Role) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if role != "" && !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	// Existence check, first-user count and insert share one transaction
	// so racing registrations cannot both claim the admin role.
	var user models.User
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.UserByEmail(ctx, email); err == nil {
			return ErrUserExists
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		count, err := tx.CountUsers(ctx)
		if err != nil {
			return err
		}
		// The very first account owns the store.
		switch {
		case count == 0:
			role = models.RoleAdmin
		case role == "":
			role = models.RoleClient
		}

		user = models.User{
			Name:         name,
			Email:        email,
			PasswordHash: pwHash,
			Role:         role,
		}
		return tx.CreateUser(ctx, &user)
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) || errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("register_failed", "reason", "user_exists")
			return nil, ErrUserExists
		}
		l.Error("register_failed", "reason", "db_error", "error", err)
		return nil, err
	}

	res, err := s.buildSession(ctx, &user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "user_registered", &user)
	l.Info("register_success", "user_id", user.ID, "role", user.Role)
	return res, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Burn a bcrypt compare anyway so an unknown email costs the
			// same as a wrong password.
			hash.CheckPassword(dummyPasswordHash, password)
			l.Warn("login_failed", "reason", "invalid email or password")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "invalid email or password")
		return nil, ErrInvalidCredentials
	}

	res, err := s.buildSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "user_logged_in", user)
	l.Info("login_success", "user_id", user.ID)
	return res, nil
}

// LogOut revokes the presented refresh token in the allow-list. The caller
// discards its local session either way, so an unknown token is not an error.
func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, ErrNoToken
	}

	claims, err := tokens.ParseAccess(accessToken, s.JWTSecret)
	if err != nil {
		if errors.Is(err, tokens.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	userID, err := tokens.ParseSubject(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// Refresh exchanges a live refresh token for a new access token. The
// refresh token itself is not rotated; it stays valid until its own
// expiry or revocation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refreshToken == "" {
		return "", time.Time{}, ErrNoRefreshToken
	}

	claims, err := tokens.ParseRefresh(refreshToken, s.RefreshSecret)
	if err != nil {
		if errors.Is(err, tokens.ErrExpired) {
			return "", time.Time{}, ErrRefreshExpired
		}
		return "", time.Time{}, ErrInvalidRefreshToken
	}

	stored, err := s.Repo.RefreshByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "reason", "unknown jti")
			return "", time.Time{}, ErrInvalidRefreshToken
		}
		return "", time.Time{}, err
	}
	if stored.Revoked {
		l.Warn("refresh_failed", "reason", "revoked")
		return "", time.Time{}, ErrInvalidRefreshToken
	}
	if stored.ExpiresAt < time.Now().Unix() {
		return "", time.Time{}, ErrRefreshExpired
	}

	userID, err := tokens.ParseSubject(claims.Subject)
	if err != nil {
		return "", time.Time{}, ErrInvalidRefreshToken
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", time.Time{}, ErrNotFound
		}
		return "", time.Time{}, err
	}

	access, exp, err := s.issueAccess(user.ID, user.Role)
	if err != nil {
		return "", time.Time{}, err
	}
	l.Info("refresh_success", "user_id", user.ID)
	return access, exp, nil
}

func (s *AuthService) buildSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	access, accessExp, err := s.issueAccess(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.issueRefresh(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         *user,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType string, user *models.User) {
	event := map[string]any{
		"type":   eventType,
		"userID": user.ID,
		"email":  user.Email,
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Producer.Publish(pubCtx, "user_events", fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
