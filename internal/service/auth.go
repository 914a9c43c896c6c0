package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, *auth.Claims, error)
	Parse(token string) (*auth.Claims, error)
}

// SignUpInput is the registration form.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// AuthResult is returned after sign-up and sign-in.
type AuthResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
}

// Session describes the signed-in user.
type Session struct {
	UserID    string         `json:"user_id"`
	Email     string         `json:"email"`
	Profile   *model.Profile `json:"profile"`
	Roles     []model.Role   `json:"roles"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// AuthService registers users and manages their sessions.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	// SignOut revokes the token the claims were parsed from.
	SignOut(ctx context.Context, claims *auth.Claims) error
	Session(ctx context.Context, claims *auth.Claims) (*Session, error)
	// Authenticate verifies a bearer token and checks it has not been revoked.
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	// PurgeRevoked drops revocations of tokens that have expired anyway.
	PurgeRevoked(ctx context.Context) (int64, error)
}

type authService struct {
	tx     repository.TransactionManager
	users  repository.UserRepository
	roles  repository.RoleRepository
	tokens repository.TokenRepository
	issuer TokenIssuer
	hasher PasswordHasher
	now    func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(
	tx repository.TransactionManager,
	users repository.UserRepository,
	roles repository.RoleRepository,
	tokens repository.TokenRepository,
	issuer TokenIssuer,
	hasher PasswordHasher,
) AuthService {
	return &authService{
		tx:     tx,
		users:  users,
		roles:  roles,
		tokens: tokens,
		issuer: issuer,
		hasher: hasher,
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var user *model.User
	err = s.tx.Execute(ctx, func(repos repository.RepositoryFactory) error {
		u, err := repos.Users().Create(ctx, email, hash)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEmailTaken
			}
			return errors.Wrap(err, "create user")
		}
		if _, err := repos.Users().CreateProfile(ctx, &model.Profile{
			ID:       u.ID,
			Email:    u.Email,
			FullName: optional(in.FullName),
			Phone:    optional(in.Phone),
		}); err != nil {
			return errors.Wrap(err, "create profile")
		}
		if err := repos.Roles().Grant(ctx, u.ID, model.RoleUser); err != nil {
			return errors.Wrap(err, "grant user role")
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "find user")
	}
	if !s.hasher.Check(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *authService) issue(user *model.User) (*AuthResult, error) {
	token, claims, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAtTime(),
		UserID:      user.ID,
		Email:       user.Email,
	}, nil
}

func (s *authService) SignOut(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return ErrUnauthenticated
	}
	if err := s.tokens.Revoke(ctx, claims.ID, claims.UserID(), claims.ExpiresAtTime()); err != nil {
		return errors.Wrap(err, "revoke token")
	}
	return nil
}

func (s *authService) Session(ctx context.Context, claims *auth.Claims) (*Session, error) {
	if claims == nil {
		return nil, ErrUnauthenticated
	}
	profile, err := s.users.FindProfile(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find profile")
	}
	roles, err := s.roles.List(ctx, claims.UserID())
	if err != nil {
		return nil, errors.Wrap(err, "list roles")
	}
	return &Session{
		UserID:    claims.UserID(),
		Email:     claims.Email,
		Profile:   profile,
		Roles:     roles,
		ExpiresAt: claims.ExpiresAtTime(),
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, errors.Wrap(ErrUnauthenticated, err.Error())
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, errors.Wrap(err, "check token revocation")
	}
	if revoked {
		return nil, errors.Wrap(ErrUnauthenticated, "token revoked")
	}
	return claims, nil
}

func (s *authService) PurgeRevoked(ctx context.Context) (int64, error) {
	return s.tokens.PurgeExpired(ctx, s.now())
}
