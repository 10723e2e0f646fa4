package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/todo-board/internal/domain"
	"github.com/Tomlord1122/todo-board/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.healthHandler)

	// HTML dashboard and its form posts.
	r.Get("/", s.indexHandler)
	r.Route("/users", func(r chi.Router) {
		r.Post("/add", s.addUserFormHandler)
		r.Post("/delete/{id}", s.deleteUserFormHandler)
	})
	r.Route("/todos", func(r chi.Router) {
		r.Post("/add", s.addTodoFormHandler)
		r.Post("/delete/{id}", s.deleteTodoFormHandler)
		r.Post("/edit/{id}", s.editTodoFormHandler)
		r.Post("/toggle/{id}", s.toggleTodoFormHandler)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.getStatsHandler)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.listUsersHandler)
			r.Post("/", s.createUserHandler)
			r.Delete("/{id}", s.deleteUserHandler)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", s.listTodosHandler)
			r.Post("/", s.createTodoHandler)
			r.Get("/{id}", s.getTodoByIDHandler)
			r.Patch("/{id}", s.updateTodoHandler)
			r.Put("/{id}", s.updateTodoHandler)
			r.Delete("/{id}", s.deleteTodoHandler)
			r.Post("/{id}/toggle", s.toggleTodoHandler)
		})
	})

	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) getStatsHandler(w http.ResponseWriter, r *http.Request) {
	counts, err := s.statsService.Counts(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to compute counts")
		return
	}
	respondWithJSON(w, http.StatusOK, counts)
}

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.ListUsers(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user, err := s.userService.CreateUser(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to create user")
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

func (s *Server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "user")
	if !ok {
		return
	}

	deleted, err := s.userService.DeleteUser(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, "Failed to delete user")
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("user with ID %d not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todoService.ListTodos(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve todos")
		return
	}
	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	todo, err := s.todoService.CreateTodo(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to create todo")
		return
	}
	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) getTodoByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "todo")
	if !ok {
		return
	}

	todo, err := s.todoService.GetTodoByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, "Failed to retrieve todo")
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "todo")
	if !ok {
		return
	}

	var req service.UpdateTodoRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Title == nil && req.DueDate == nil && req.IsDone == nil {
		respondWithError(w, http.StatusBadRequest, "Request body must set at least one of title, due_date, is_done")
		return
	}

	updated, err := s.todoService.UpdateTodo(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, err, "Failed to update todo")
		return
	}
	if !updated {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("todo with ID %d not found", id))
		return
	}
	s.respondWithTodo(w, r, id)
}

func (s *Server) toggleTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "todo")
	if !ok {
		return
	}

	toggled, err := s.todoService.ToggleTodo(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, "Failed to toggle todo")
		return
	}
	if !toggled {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("todo with ID %d not found", id))
		return
	}
	s.respondWithTodo(w, r, id)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "todo")
	if !ok {
		return
	}

	deleted, err := s.todoService.DeleteTodo(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, "Failed to delete todo")
		return
	}
	if !deleted {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("todo with ID %d not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondWithTodo(w http.ResponseWriter, r *http.Request, id uint) {
	todo, err := s.todoService.GetTodoByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, "Failed to retrieve todo")
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

// parseID reads the {id} URL parameter. Zero is not a valid ID.
func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("id must be positive")
	}
	return uint(id), nil
}

func parseIDParam(w http.ResponseWriter, r *http.Request, kind string) (uint, bool) {
	id, err := parseID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID provided", kind))
		return 0, false
	}
	return id, true
}

// decodeJSONBody decodes a strict JSON body into dst, writing a 400 response
// and returning false when the body is unusable.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case errors.Is(err, io.ErrUnexpectedEOF):
		respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName))
	case errors.Is(err, io.EOF):
		respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
	default:
		log.Printf("Error decoding request body: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error processing request")
	}
	return false
}

func respondWithServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrConstraintViolation):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
