package server

import (
	"bytes"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/Tomlord1122/todo-board/internal/domain"
	"github.com/Tomlord1122/todo-board/internal/service"
)

type indexPage struct {
	Users  []service.UserResponse
	Todos  []service.TodoResponse
	Counts *domain.Counts
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := s.userService.ListUsers(ctx)
	if err != nil {
		http.Error(w, "Failed to load users", http.StatusInternalServerError)
		return
	}
	todos, err := s.todoService.ListTodos(ctx)
	if err != nil {
		http.Error(w, "Failed to load todos", http.StatusInternalServerError)
		return
	}
	counts, err := s.statsService.Counts(ctx)
	if err != nil {
		http.Error(w, "Failed to load counts", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	page := indexPage{Users: users, Todos: todos, Counts: counts}
	if err := s.pages.ExecuteTemplate(&buf, "index.html", page); err != nil {
		log.Printf("Error rendering index page: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Form posts always land back on the dashboard. A failed write is logged and
// the page shows the state as it was.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) addUserFormHandler(w http.ResponseWriter, r *http.Request) {
	defer redirectHome(w, r)

	req := service.CreateUserRequest{Name: r.PostFormValue("name")}
	if _, err := s.userService.CreateUser(r.Context(), req); err != nil {
		log.Printf("users/add: %v", err)
	}
}

func (s *Server) deleteUserFormHandler(w http.ResponseWriter, r *http.Request) {
	defer redirectHome(w, r)

	id, err := parseID(r)
	if err != nil {
		log.Printf("users/delete: invalid id: %v", err)
		return
	}
	if _, err := s.userService.DeleteUser(r.Context(), id); err != nil {
		log.Printf("users/delete %d: %v", id, err)
	}
}

func (s *Server) addTodoFormHandler(w http.ResponseWriter, r *http.Request) {
	defer redirectHome(w, r)

	userID, err := strconv.ParseUint(strings.TrimSpace(r.PostFormValue("user_id")), 10, 64)
	if err != nil {
		log.Printf("todos/add: invalid user_id: %v", err)
		return
	}

	req := service.CreateTodoRequest{
		UserID: uint(userID),
		Title:  r.PostFormValue("title"),
	}
	if due := r.PostFormValue("due_date"); due != "" {
		req.DueDate = &due
	}
	if _, err := s.todoService.CreateTodo(r.Context(), req); err != nil {
		log.Printf("todos/add: %v", err)
	}
}

func (s *Server) deleteTodoFormHandler(w http.ResponseWriter, r *http.Request) {
	defer redirectHome(w, r)

	id, err := parseID(r)
	if err != nil {
		log.Printf("todos/delete: invalid id: %v", err)
		return
	}
	if _, err := s.todoService.DeleteTodo(r.Context(), id); err != nil {
		log.Printf("todos/delete %d: %v", id, err)
	}
}

// editTodoFormHandler applies the edit form. The title is changed only when
// the field is posted, the due date only when non-blank (or when
// clear_due_date is checked), and the is_done checkbox is always applied.
func (s *Server) editTodoFormHandler(w http.ResponseWriter, r *http.Request) {
	defer redirectHome(w, r)

	id, err := parseID(r)
	if err != nil {
		log.Printf("todos/edit: invalid id: %v", err)
		return
	}
	if err := r.ParseForm(); err != nil {
		log.Printf("todos/edit %d: %v", id, err)
		return
	}

	isDone := r.PostForm.Get("is_done") == "on"
	req := service.UpdateTodoRequest{IsDone: &isDone}
	if titles, ok := r.PostForm["title"]; ok && len(titles) > 0 {
		req.Title = &titles[0]
	}
	if r.PostForm.Get("clear_due_date") == "on" {
		cleared := ""
		req.DueDate = &cleared
	} else if due := strings.TrimSpace(r.PostForm.Get("due_date")); due != "" {
		req.DueDate = &due
	}

	if _, err := s.todoService.UpdateTodo(r.Context(), id, req); err != nil {
		log.Printf("todos/edit %d: %v", id, err)
	}
}

func (s *Server) toggleTodoFormHandler(w http.ResponseWriter, r *http.Request) {
	defer redirectHome(w, r)

	id, err := parseID(r)
	if err != nil {
		log.Printf("todos/toggle: invalid id: %v", err)
		return
	}
	if _, err := s.todoService.ToggleTodo(r.Context(), id); err != nil {
		log.Printf("todos/toggle %d: %v", id, err)
	}
}
