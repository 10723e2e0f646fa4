package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-board/internal/domain"
)

// UserRepository defines the data operations on users.
type UserRepository interface {
	Create(ctx context.Context, name string) (uint, error)
	// Delete removes the user and, through the foreign key, all of its todos.
	Delete(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, name string) (uint, error) {
	user := &domain.User{Name: name}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return 0, translateError(err)
	}
	return user.ID, nil
}

func (r *gormUserRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.User{}, id)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// List returns all users ordered by name.
func (r *gormUserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	result := r.db.WithContext(ctx).Order("name").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}
