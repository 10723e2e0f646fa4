package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-board/internal/domain"
)

// TodoRepository defines the data operations on todos.
type TodoRepository interface {
	Create(ctx context.Context, userID uint, title string, dueDate *string) (uint, error)
	FindByID(ctx context.Context, id uint) (*domain.TodoView, error)
	ListWithOwners(ctx context.Context) ([]domain.TodoView, error)
	Update(ctx context.Context, id uint, patch domain.TodoPatch) (bool, error)
	Toggle(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

const todoViewColumns = "t.id, t.user_id, u.name AS user_name, t.title, t.due_date, t.is_done, t.created_at, t.updated_at"

// Undated todos sort after every real date, then open before done, then by id.
const todoListOrder = "COALESCE(t.due_date, '" + domain.NoDueDateSentinel + "'), t.is_done, t.id"

type gormTodoRepository struct {
	db *gorm.DB
}

func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, userID uint, title string, dueDate *string) (uint, error) {
	todo := &domain.Todo{
		UserID:  userID,
		Title:   title,
		DueDate: dueDate,
		IsDone:  false,
	}
	// The zero-valued User must not be upserted as an association.
	if err := r.db.WithContext(ctx).Omit("User").Create(todo).Error; err != nil {
		return 0, translateError(err)
	}
	return todo.ID, nil
}

func (r *gormTodoRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("todos AS t").
		Select(todoViewColumns).
		Joins("JOIN users u ON u.id = t.user_id")
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id uint) (*domain.TodoView, error) {
	var view domain.TodoView
	result := r.joined(ctx).Where("t.id = ?", id).Limit(1).Scan(&view)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("todo %d: %w", id, domain.ErrNotFound)
	}
	return &view, nil
}

// ListWithOwners returns every todo with its owner's name, ordered for display.
func (r *gormTodoRepository) ListWithOwners(ctx context.Context) ([]domain.TodoView, error) {
	var views []domain.TodoView
	result := r.joined(ctx).Order(todoListOrder).Scan(&views)
	if result.Error != nil {
		return nil, result.Error
	}
	return views, nil
}

// Update applies the supplied fields in one statement and refreshes updated_at.
// It reports false when the patch is empty or the todo does not exist.
func (r *gormTodoRepository) Update(ctx context.Context, id uint, patch domain.TodoPatch) (bool, error) {
	if patch.IsEmpty() {
		return false, nil
	}

	updates := map[string]any{"updated_at": r.db.NowFunc()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.DueDate != nil {
		if *patch.DueDate == "" {
			updates["due_date"] = nil
		} else {
			updates["due_date"] = *patch.DueDate
		}
	}
	if patch.IsDone != nil {
		updates["is_done"] = *patch.IsDone
	}

	return r.updateColumns(ctx, id, updates)
}

// Toggle flips is_done in a single statement.
func (r *gormTodoRepository) Toggle(ctx context.Context, id uint) (bool, error) {
	return r.updateColumns(ctx, id, map[string]any{
		"is_done":    gorm.Expr("NOT is_done"),
		"updated_at": r.db.NowFunc(),
	})
}

func (r *gormTodoRepository) updateColumns(ctx context.Context, id uint, updates map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormTodoRepository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Todo{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
