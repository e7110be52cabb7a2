package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

type UserService interface {
	CreateUser(ctx context.Context) (*entity.User, error)
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
}

type userRepo interface {
	Save(ctx context.Context, user *entity.User) error
	Find(ctx context.Context, id string) (*entity.User, error)
}

type userService struct {
	userRepo userRepo
}

func NewUserService(userRepo userRepo) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

// CreateUser issues a fresh opaque identity. Accounts carry nothing
// beyond the identity itself.
func (that *userService) CreateUser(ctx context.Context) (*entity.User, error) {
	user := &entity.User{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	if err := that.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	return user, nil
}

func (that *userService) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := that.userRepo.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}

	return user, nil
}
