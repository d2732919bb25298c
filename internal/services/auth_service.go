package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelbook/internal/domain"
	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
	"travelbook/internal/utils"
	"travelbook/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login and ParseToken.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	Store   repositories.Store
	Secret  []byte
	TTL     time.Duration
	Timeout time.Duration
	Clock   func() time.Time
	// Cost overrides bcrypt.DefaultCost (tests use bcrypt.MinCost).
	Cost int
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=120"`
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=40"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (s AuthService) cost() int {
	if s.Cost > 0 {
		return s.Cost
	}
	return bcrypt.DefaultCost
}

func (s AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 24 * time.Hour
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	return s.create(ctx, in, domain.RoleUser)
}

// EnsureAdmin creates the bootstrap admin account unless the login exists.
func (s AuthService) EnsureAdmin(ctx context.Context, in RegisterInput) error {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	if _, err := s.Store.Users().GetByLogin(ctx, in.Username); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return storeError("ensure admin", "user", err)
	}
	_, err := s.create(ctx, in, domain.RoleAdmin)
	if domain.IsConflict(err) {
		return nil
	}
	return err
}

func (s AuthService) create(ctx context.Context, in RegisterInput, role domain.Role) (models.User, error) {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validation.Struct(in); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}
	u := models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         string(role),
		Status:       "active",
		CreatedAt:    clock(s.Clock),
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	if err := s.Store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.User{}, domain.ConflictError{Resource: "user", Kind: domain.ConflictUnique, Msg: "email or username already registered", Err: err}
		}
		return models.User{}, storeError("register", "user", err)
	}
	utils.LogEvent("", "auth", "register", "user_id="+u.ID+" role="+u.Role)
	return u, nil
}

// Login checks the password and issues a signed token.
func (s AuthService) Login(ctx context.Context, login, password string) (string, models.User, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	u, err := s.Store.Users().GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, storeError("login", "user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}
	token, err := s.IssueToken(u)
	if err != nil {
		return "", models.User{}, err
	}
	return token, u, nil
}

func (s AuthService) IssueToken(u models.User) (string, error) {
	now := clock(s.Clock)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  u.ID,
		"username": u.Username,
		"role":     u.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl()).Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	return signed, nil
}

// ParseToken verifies an HS256 token and returns the caller identity.
func (s AuthService) ParseToken(raw string) (domain.RequestContext, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.Clock != nil {
		opts = append(opts, jwt.WithTimeFunc(s.Clock))
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return domain.RequestContext{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return domain.RequestContext{}, ErrInvalidCredentials
	}
	userID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || username == "" {
		return domain.RequestContext{}, ErrInvalidCredentials
	}
	return domain.RequestContext{UserID: userID, Username: username, Role: domain.Role(role)}, nil
}

func (s AuthService) Me(ctx context.Context, userID string) (models.User, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	u, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return models.User{}, storeError("me", "user", err)
	}
	return u, nil
}
