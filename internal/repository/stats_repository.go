package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-board/internal/domain"
)

// StatsRepository computes the dashboard counts. Nothing is cached.
type StatsRepository interface {
	CountTotal(ctx context.Context) (int64, error)
	CountOpen(ctx context.Context) (int64, error)
	CountDone(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	// CountOverdue counts open todos due strictly before today.
	CountOverdue(ctx context.Context, today time.Time) (int64, error)
	// CountDueToday counts todos due today, done or not.
	CountDueToday(ctx context.Context, today time.Time) (int64, error)
}

type gormStatsRepository struct {
	db *gorm.DB
}

func NewGormStatsRepository(db *gorm.DB) StatsRepository {
	return &gormStatsRepository{db: db}
}

func (r *gormStatsRepository) count(ctx context.Context, model any, query any, args ...any) (int64, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(model)
	if query != nil {
		tx = tx.Where(query, args...)
	}
	if err := tx.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *gormStatsRepository) CountTotal(ctx context.Context) (int64, error) {
	return r.count(ctx, &domain.Todo{}, nil)
}

func (r *gormStatsRepository) CountOpen(ctx context.Context) (int64, error) {
	return r.count(ctx, &domain.Todo{}, "is_done = ?", false)
}

func (r *gormStatsRepository) CountDone(ctx context.Context) (int64, error) {
	return r.count(ctx, &domain.Todo{}, "is_done = ?", true)
}

func (r *gormStatsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &domain.User{}, nil)
}

func (r *gormStatsRepository) CountOverdue(ctx context.Context, today time.Time) (int64, error) {
	return r.count(ctx, &domain.Todo{},
		"is_done = ? AND due_date IS NOT NULL AND due_date < ?", false, today.Format(domain.DateLayout))
}

func (r *gormStatsRepository) CountDueToday(ctx context.Context, today time.Time) (int64, error) {
	return r.count(ctx, &domain.Todo{}, "due_date = ?", today.Format(domain.DateLayout))
}
