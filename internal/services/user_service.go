package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/devconnect/internal/models"
	pgrepo "github.com/yoockh/devconnect/internal/repositories/postgres"
	"github.com/yoockh/devconnect/internal/utils"
)

type TokenIssuer interface {
	Issue(u *models.User) (string, error)
}

type UserService interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.User, error)
	// Login returns a signed bearer token for valid credentials.
	Login(ctx context.Context, in models.LoginInput) (string, error)
	Get(ctx context.Context, userID string) (*models.User, error)
}

type userService struct {
	users  pgrepo.UserRepository
	tokens TokenIssuer
}

func NewUserService(users pgrepo.UserRepository, tokens TokenIssuer) UserService {
	return &userService{users: users, tokens: tokens}
}

func (s *userService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	const op = "UserService.Register"

	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Avatar:       gravatarURL(email),
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, pgrepo.ErrEmailTaken) {
			return nil, &utils.AppError{
				Code:    utils.CodeInvalidArgument,
				Op:      op,
				Message: "Email already exists",
				Fields:  utils.FieldErrors{"email": {"Email already exists"}},
				Err:     err,
			}
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return u, nil
}

func (s *userService) Login(ctx context.Context, in models.LoginInput) (string, error) {
	const op = "UserService.Login"

	u, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", &utils.AppError{
				Code:    utils.CodeNotFound,
				Op:      op,
				Message: "User not found",
				Fields:  utils.FieldErrors{"email": {"User not found"}},
				Err:     err,
			}
		}
		return "", utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	ok, err := utils.CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to check password", err)
	}
	if !ok {
		return "", &utils.AppError{
			Code:    utils.CodeInvalidArgument,
			Op:      op,
			Message: "Password incorrect",
			Fields:  utils.FieldErrors{"password": {"Password incorrect"}},
		}
	}

	tok, err := s.tokens.Issue(u)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return tok, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*models.User, error) {
	const op = "UserService.Get"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get user", err)
	}
	return u, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// gravatarURL is the default avatar: 200px, pg rating, mystery-man fallback.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
