package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/percefons/auth-service/internal/domain"
	"github.com/percefons/auth-service/internal/email"
	"github.com/percefons/auth-service/internal/metrics"
	"github.com/percefons/auth-service/internal/password"
	"github.com/percefons/auth-service/internal/repository"
)

// TokenIssuer is the part of token.Service the auth flows depend on.
type TokenIssuer interface {
	IssueAuth(subject string) (domain.TokenPair, error)
	RefreshAuth(refreshToken string) (string, error)
}

// permissionGranter hands every known permission to a user.
type permissionGranter interface {
	GrantAll(ctx context.Context, user *domain.User) (*domain.User, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher password.Hasher
	tokens TokenIssuer
	grants permissionGranter
	email  email.Sender
	logger *slog.Logger
	now    func() time.Time
}

func NewAuthUsecase(
	users repository.UserRepository,
	hasher password.Hasher,
	tokens TokenIssuer,
	grants permissionGranter,
	emailSender email.Sender,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		grants: grants,
		email:  emailSender,
		logger: logger.With("component", "auth_usecase"),
		now:    time.Now,
	}
}

type RegisterInput struct {
	Username string
	Password string
	Email    string // optional
}

type RegisterResult struct {
	UserID    int64
	Username  string
	CreatedAt time.Time
}

type LoginResult struct {
	Status domain.VerifyStatus
	Tokens domain.TokenPair
}

// Register validates the input, hashes the password and stores a new active
// user. A taken username or email yields domain.ErrUserAlreadyExists.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	user, err := u.prepareUser(ctx, in)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	created, err := u.users.Create(ctx, user)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(outcome(err)).Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	u.logger.InfoContext(ctx, "user registered", "user_id", created.ID, "username", created.Username)

	if created.Email != nil {
		u.sendWelcome(ctx, created)
	}

	return &RegisterResult{
		UserID:    created.ID,
		Username:  created.Username,
		CreatedAt: created.CreatedAt,
	}, nil
}

// Login checks the credentials and issues a token pair. Unknown usernames and
// wrong passwords fail with the same domain.ErrAuthenticationFailed.
func (u *AuthUsecase) Login(ctx context.Context, username, plain string) (*LoginResult, error) {
	user, err := u.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failed").Inc()
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := u.hasher.Verify(plain, user.PasswordDigest)
	if err != nil {
		u.logger.WarnContext(ctx, "password verification error", "user_id", user.ID, "error", err)
	}
	if err != nil || !ok {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return nil, domain.ErrAuthenticationFailed
	}

	pair, err := u.tokens.IssueAuth(user.Subject())
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return &LoginResult{Status: domain.StatusSuccess, Tokens: pair}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	access, err := u.tokens.RefreshAuth(refreshToken)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("denied").Inc()
		u.logger.DebugContext(ctx, "refresh denied", "error", err)
		return "", err
	}
	metrics.RefreshesTotal.WithLabelValues("success").Inc()
	return access, nil
}

// Me returns the profile of the user a verified access token was issued to.
func (u *AuthUsecase) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// CreateSuperuser registers an active staff superuser holding every
// permission currently in the store.
func (u *AuthUsecase) CreateSuperuser(ctx context.Context, in RegisterInput) (*domain.User, error) {
	user, err := u.prepareUser(ctx, in)
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true

	created, err := u.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create superuser: %w", err)
	}

	granted, err := u.grants.GrantAll(ctx, created)
	if err != nil {
		return nil, fmt.Errorf("grant permissions: %w", err)
	}
	u.logger.InfoContext(ctx, "superuser created",
		"user_id", granted.ID, "username", granted.Username, "permissions", len(granted.Permissions))
	return granted, nil
}

// prepareUser runs the field validators, rejects taken usernames and builds
// the active user to insert. Nothing is stored.
func (u *AuthUsecase) prepareUser(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := domain.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Email != "" {
		if err := domain.ValidateEmail(in.Email); err != nil {
			return nil, err
		}
	}

	_, err := u.users.GetByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return nil, domain.ErrUserAlreadyExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	digest, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:       in.Username,
		PasswordDigest: digest,
		CreatedAt:      u.now().UTC(),
	}
	if in.Email != "" {
		addr := in.Email
		user.Email = &addr
	}
	user.Activate()
	return user, nil
}

func (u *AuthUsecase) sendWelcome(ctx context.Context, user *domain.User) {
	subject, body := email.Welcome(user.Username)
	if err := u.email.Send(ctx, *user.Email, subject, body); err != nil {
		u.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "error", err)
	}
}

func outcome(err error) string {
	var fe *domain.FieldError
	switch {
	case errors.As(err, &fe):
		return "invalid"
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return "conflict"
	default:
		return "error"
	}
}
