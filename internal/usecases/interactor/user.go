package interactor

import (
	"context"
	"github.com/venturashop/checkout/internal/domain/repositories"
)

type UserInteractor struct {
	userRepository repositories.UserRepository
}

func NewUserInteractor(userRepository repositories.UserRepository) *UserInteractor {
	return &UserInteractor{userRepository: userRepository}
}

func (u *UserInteractor) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, err := u.userRepository.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return true, nil
}
