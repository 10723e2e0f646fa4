package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Tomlord1122/todo-board/internal/domain"
	"github.com/Tomlord1122/todo-board/internal/repository"
)

// CreateUserRequest holds the data needed to add a user.
type CreateUserRequest struct {
	Name string `json:"name" validate:"required"`
}

type UserResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserService defines the operations for managing users.
type UserService interface {
	// CreateUser adds a user. Blank or duplicate names are constraint violations.
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)

	// DeleteUser removes a user together with all of their todos.
	// It reports false when no such user exists.
	DeleteUser(ctx context.Context, id uint) (bool, error)

	// ListUsers returns all users ordered by name.
	ListUsers(ctx context.Context) ([]UserResponse, error)
}

type userService struct {
	repo     repository.UserRepository
	validate *validator.Validate
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{
		repo:     repo,
		validate: newValidator(),
	}
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := checkPresence(s.validate, req); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, req.Name)
	if err != nil {
		if !errors.Is(err, domain.ErrConstraintViolation) {
			log.Printf("Error creating user in repository: %v", err)
		}
		return nil, err
	}
	return &UserResponse{ID: id, Name: req.Name}, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Printf("Error deleting user %d from repository: %v", id, err)
		return false, err
	}
	return ok, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		log.Printf("Error fetching users from repository: %v", err)
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, UserResponse{ID: u.ID, Name: u.Name})
	}
	return responses, nil
}
