package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"smart-erp/internal/model"
	"smart-erp/pkg/apierror"
)

const (
	tokenTypeSession = "session"
	tokenTypeReset   = "reset"
)

type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

type Notifier interface {
	Notify(ctx context.Context, userID string, kind string, title string, message string) (model.Notification, error)
}

type ResetMailer interface {
	SendPasswordReset(to string, name string, resetLink string) error
}

type AuthService struct {
	users          UserStore
	notifier       Notifier
	mailer         ResetMailer
	jwtSecret      []byte
	sessionTTL     time.Duration
	resetTTL       time.Duration
	frontendOrigin string

	// Overridable in tests; defaults to time.Sleep. Used only for the
	// anti-enumeration delay on unknown reset emails.
	sleep func(time.Duration)
}

func NewAuthService(
	jwtSecret string,
	sessionTTL time.Duration,
	resetTTL time.Duration,
	frontendOrigin string,
	users UserStore,
	notifier Notifier,
	mailer ResetMailer,
) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}

	return &AuthService{
		users:          users,
		notifier:       notifier,
		mailer:         mailer,
		jwtSecret:      []byte(jwtSecret),
		sessionTTL:     sessionTTL,
		resetTTL:       resetTTL,
		frontendOrigin: strings.TrimRight(frontendOrigin, "/"),
		sleep:          time.Sleep,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, name string, email string, password string, role string) (model.AuthResponse, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	role = strings.TrimSpace(role)

	if name == "" || email == "" || password == "" {
		return model.AuthResponse{}, apierror.BadRequest("name, email and password are required", "")
	}

	// Conflict is reported before the strength policy runs, so a duplicate
	// email always reads as a conflict regardless of password validity.
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if exists {
		return model.AuthResponse{}, apierror.Conflict("user already exists", "")
	}

	if err := validatePasswordStrength(password); err != nil {
		return model.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	if role == "" {
		role = "admin"
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.AuthResponse{}, apierror.Conflict("user already exists", "")
		}
		return model.AuthResponse{}, err
	}

	welcome := fmt.Sprintf("Hello %s, we are excited to have you on board.", user.Name)
	if _, err := s.notifier.Notify(ctx, user.ID, model.NotificationInfo, "Welcome to Smart ERP! 🎉", welcome); err != nil {
		return model.AuthResponse{}, err
	}

	return s.issueSession(user)
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthResponse{}, apierror.Unauthorized("invalid credentials")
	}
	if err != nil {
		return model.AuthResponse{}, err
	}

	// Same payload as the unknown-email branch; a caller cannot tell which
	// half of the credential pair was wrong.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.AuthResponse{}, apierror.Unauthorized("invalid credentials")
	}

	now := time.Now().UTC()
	if user.LastLogin == nil {
		message := fmt.Sprintf("Good to see you again, %s.", user.Name)
		if _, err := s.notifier.Notify(ctx, user.ID, model.NotificationInfo, "Welcome Back! 👋", message); err != nil {
			return model.AuthResponse{}, err
		}
	} else if user.LastLogin.Before(now.Add(-3 * 24 * time.Hour)) {
		message := fmt.Sprintf("It's been a while. Good to see you again, %s.", user.Name)
		if _, err := s.notifier.Notify(ctx, user.ID, model.NotificationInfo, "Welcome Back! 👋", message); err != nil {
			return model.AuthResponse{}, err
		}
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return model.AuthResponse{}, err
	}

	return s.issueSession(user)
}

func (s *AuthService) GetCurrentAccount(ctx context.Context, userID string) (model.Account, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Account{}, apierror.Unauthorized("account no longer exists")
	}
	if err != nil {
		return model.Account{}, err
	}

	return user.Account(), nil
}

// RequestPasswordReset responds identically whether or not the email is
// known. The unknown branch sleeps roughly as long as token signing plus an
// email send takes, to blunt timing-based account enumeration.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, model.ErrUserNotFound) {
		s.sleep(time.Second)
		return nil
	}
	if err != nil {
		return err
	}

	token, err := s.signToken(jwt.MapClaims{
		"sub": user.ID,
		"typ": tokenTypeReset,
		"jti": uuid.NewString(),
		"iat": time.Now().UTC().Unix(),
		"exp": time.Now().UTC().Add(s.resetTTL).Unix(),
	})
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}

	resetLink := s.frontendOrigin + "/reset-password/" + token
	if err := s.mailer.SendPasswordReset(user.Email, user.Name, resetLink); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, tokenString string, newPassword string) error {
	claims, err := s.parseToken(tokenString, tokenTypeReset)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return apierror.TokenExpired("Token has expired. Please request a new link.")
		}
		return apierror.New("INVALID_TOKEN", "invalid reset token", "", 400)
	}

	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return apierror.New("INVALID_TOKEN", "invalid reset token", "", 400)
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, claims.UserID, string(hash))
}

// DeleteAccount re-reads the account before deleting, so a second call with
// a still-unexpired token fails as unauthenticated rather than repeating
// the delete.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return apierror.Unauthorized("account no longer exists")
		}
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return apierror.Unauthorized("account no longer exists")
		}
		return err
	}

	return nil
}

// ValidateToken checks signature, expiry, and token type. It backs the auth
// middleware; expiry is not distinguished here because session consumers
// all see the same unauthenticated response.
func (s *AuthService) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	claims, err := s.parseToken(tokenString, expectedType)
	if err != nil {
		return nil, apierror.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) issueSession(user model.User) (model.AuthResponse, error) {
	now := time.Now().UTC()
	token, err := s.signToken(jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"typ":  tokenTypeSession,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.sessionTTL).Unix(),
	})
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("sign session token: %w", err)
	}

	return model.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.sessionTTL.Seconds()),
		User:      user.Account(),
	}, nil
}

func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *AuthService) parseToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, model.ErrTokenInvalid
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrTokenInvalid
	}

	claims := &model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.Type, _ = claimsMap["typ"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, model.ErrTokenInvalid
	}
	if expectedType != "" && claims.Type != expectedType {
		return nil, model.ErrTokenInvalid
	}

	return claims, nil
}
