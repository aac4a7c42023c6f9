package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/cryptox"
	"github.com/dmitrijs2005/songkeeper/internal/logging"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/users"
)

// PasswordHasher turns plaintext passwords into stored hashes and back.
type PasswordHasher interface {
	Hash(password string) string
	Verify(password, encoded string) (bool, error)
}

// Argon2Hasher is the production PasswordHasher.
type Argon2Hasher struct {
	Params cryptox.Params
}

func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{Params: cryptox.DefaultParams}
}

func (h *Argon2Hasher) Hash(password string) string {
	return cryptox.HashPasswordWithParams(password, h.Params)
}

func (h *Argon2Hasher) Verify(password, encoded string) (bool, error) {
	return cryptox.VerifyPassword(password, encoded)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type UserService struct {
	repo   users.Repository
	hasher PasswordHasher
	tokens TokenIssuer
	log    logging.Logger

	// compared against on unknown user ids so both login failures cost the same
	dummyHash string
}

func NewUserService(repo users.Repository, hasher PasswordHasher, tokens TokenIssuer, log logging.Logger) *UserService {
	return &UserService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		log:       log.With("module", "users"),
		dummyHash: hasher.Hash("songkeeper-dummy-password"),
	}
}

// Register stores a new user and returns its document id.
func (s *UserService) Register(ctx context.Context, payload map[string]any) (string, error) {
	v, err := models.UserCreateSchema.Validate(payload)
	if err != nil {
		return "", err
	}

	user := &models.User{
		UserID:       v.String("user_id"),
		Name:         v.String("name"),
		Email:        v.String("email"),
		PasswordHash: s.hasher.Hash(v.String("password")),
		Songs:        []int64{},
		Reviews:      []int64{},
		Photos:       []int64{},
	}

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return "", err
		}
		return "", fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.UserID)
	return id, nil
}

// Login checks the credentials and returns a bearer token.
func (s *UserService) Login(ctx context.Context, c models.Credentials) (string, error) {
	user, err := s.repo.GetByUserID(ctx, c.UserID, users.WithPassword())
	if err != nil {
		return "", fmt.Errorf("error getting user: %w", err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}

	ok, err := s.hasher.Verify(c.Password, hash)
	if err != nil {
		s.log.Warn(ctx, "stored password hash rejected", "user_id", c.UserID, "error", err)
		return "", common.ErrorUnauthorized
	}
	if user == nil || !ok {
		return "", common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}
	return token, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetByUserID(ctx, userID, users.WithoutPassword())
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, common.ErrorNotFound
	}
	return user, nil
}

// Ping reports whether the document store answers.
func (s *UserService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
