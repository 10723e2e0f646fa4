package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Tomlord1122/todo-board/internal/domain"
	"github.com/Tomlord1122/todo-board/internal/repository"
)

// CreateTodoRequest holds the data needed to create a new todo.
// A nil or blank DueDate means the todo has no due date.
type CreateTodoRequest struct {
	UserID  uint    `json:"user_id" validate:"required"`
	Title   string  `json:"title" validate:"required"`
	DueDate *string `json:"due_date"`
}

// UpdateTodoRequest holds the fields to change on an existing todo.
// Pointers distinguish an omitted field from one set to its zero value.
// A DueDate of "" removes the due date.
type UpdateTodoRequest struct {
	Title   *string `json:"title"`
	DueDate *string `json:"due_date"`
	IsDone  *bool   `json:"is_done"`
}

// TodoResponse is the representation of a todo returned by the service.
type TodoResponse struct {
	ID        uint    `json:"id"`
	UserID    uint    `json:"user_id"`
	UserName  string  `json:"user_name"`
	Title     string  `json:"title"`
	DueDate   *string `json:"due_date"`
	IsDone    bool    `json:"is_done"`
	Overdue   bool    `json:"overdue"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// TodoService defines the operations for managing todos.
type TodoService interface {
	// CreateTodo adds an open todo for an existing user.
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)

	// GetTodoByID returns domain.ErrNotFound when the todo does not exist.
	GetTodoByID(ctx context.Context, id uint) (*TodoResponse, error)

	// ListTodos returns every todo with its owner, earliest due date first,
	// undated last, open before done.
	ListTodos(ctx context.Context) ([]TodoResponse, error)

	// UpdateTodo changes only the supplied fields. It reports false when no
	// field was supplied or the todo does not exist.
	UpdateTodo(ctx context.Context, id uint, req UpdateTodoRequest) (bool, error)

	// ToggleTodo flips the completion flag.
	ToggleTodo(ctx context.Context, id uint) (bool, error)

	DeleteTodo(ctx context.Context, id uint) (bool, error)
}

type todoService struct {
	repo     repository.TodoRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewTodoService creates a todo service. now decides which todos are
// flagged overdue; nil means time.Now.
func NewTodoService(repo repository.TodoRepository, now func() time.Time) TodoService {
	if now == nil {
		now = time.Now
	}
	return &todoService{
		repo:     repo,
		validate: newValidator(),
		now:      now,
	}
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.DueDate = domain.NormalizeDueDate(req.DueDate)
	if err := checkPresence(s.validate, req); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, req.UserID, req.Title, req.DueDate)
	if err != nil {
		if !errors.Is(err, domain.ErrConstraintViolation) {
			log.Printf("Error creating todo in repository: %v", err)
		}
		return nil, err
	}

	return s.GetTodoByID(ctx, id)
}

func (s *todoService) GetTodoByID(ctx context.Context, id uint) (*TodoResponse, error) {
	view, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("Error fetching todo %d from repository: %v", id, err)
		}
		return nil, err
	}

	response := s.toResponse(*view)
	return &response, nil
}

func (s *todoService) ListTodos(ctx context.Context) ([]TodoResponse, error) {
	views, err := s.repo.ListWithOwners(ctx)
	if err != nil {
		log.Printf("Error fetching all todos from repository: %v", err)
		return nil, err
	}

	responses := make([]TodoResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, s.toResponse(view))
	}
	return responses, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, id uint, req UpdateTodoRequest) (bool, error) {
	patch := domain.TodoPatch{IsDone: req.IsDone}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return false, fmt.Errorf("%w: title is required", domain.ErrConstraintViolation)
		}
		patch.Title = &title
	}
	if req.DueDate != nil {
		due := strings.TrimSpace(*req.DueDate)
		patch.DueDate = &due
	}

	ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		log.Printf("Error updating todo %d in repository: %v", id, err)
		return false, err
	}
	return ok, nil
}

func (s *todoService) ToggleTodo(ctx context.Context, id uint) (bool, error) {
	ok, err := s.repo.Toggle(ctx, id)
	if err != nil {
		log.Printf("Error toggling todo %d in repository: %v", id, err)
		return false, err
	}
	return ok, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id uint) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Printf("Error deleting todo %d from repository: %v", id, err)
		return false, err
	}
	return ok, nil
}

func (s *todoService) toResponse(view domain.TodoView) TodoResponse {
	today := s.now().Format(domain.DateLayout)
	return TodoResponse{
		ID:        view.ID,
		UserID:    view.UserID,
		UserName:  view.UserName,
		Title:     view.Title,
		DueDate:   view.DueDate,
		IsDone:    view.IsDone,
		Overdue:   !view.IsDone && view.DueDate != nil && *view.DueDate < today,
		CreatedAt: view.CreatedAt.Format(time.RFC3339),
		UpdatedAt: view.UpdatedAt.Format(time.RFC3339),
	}
}
