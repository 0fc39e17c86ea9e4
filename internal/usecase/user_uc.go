package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"compta-billing-platform/internal/domain"
	"compta-billing-platform/internal/domain/model"
	"compta-billing-platform/internal/domain/ports/repository"
)

// UserUseCase covers account registration and credential checks. Token
// minting is the web layer's job; this use case only answers "who is this".
type UserUseCase interface {
	Register(ctx context.Context, email, password string, role model.Role, companyID string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Count(ctx context.Context) (int, error)
}

var _ UserUseCase = (*userUC)(nil)

type userUC struct {
	users repository.UserRepository
}

// NewUserUseCase constructs the user use case.
func NewUserUseCase(users repository.UserRepository) UserUseCase {
	return &userUC{users: users}
}

func (u *userUC) Register(ctx context.Context, email, password string, role model.Role, companyID string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, domain.ErrInvalidArgument
	}
	if existing, err := u.users.FindByEmail(ctx, repository.NoTX, email); err == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := model.NewUser(uuid.NewString(), email, string(hash), role, companyID)
	if err != nil {
		return nil, err
	}
	if err := u.users.Save(ctx, repository.NoTX, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns ErrInvalidCredentials for both unknown emails and bad
// passwords so callers cannot probe which accounts exist.
func (u *userUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := u.users.FindByEmail(ctx, repository.NoTX, email)
	if err != nil || user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (u *userUC) FindByID(ctx context.Context, id string) (*model.User, error) {
	return u.users.FindByID(ctx, repository.NoTX, id)
}

func (u *userUC) Count(ctx context.Context) (int, error) {
	return u.users.Count(ctx, repository.NoTX)
}
