package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/Tomlord1122/todo-board/internal/config"
	"github.com/Tomlord1122/todo-board/internal/database"
	"github.com/Tomlord1122/todo-board/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Services are the application services the HTTP layer forwards to.
type Services struct {
	Users service.UserService
	Todos service.TodoService
	Stats service.StatsService
}

type Server struct {
	port         int
	userService  service.UserService
	todoService  service.TodoService
	statsService service.StatsService
	db           database.Service
	pages        *template.Template
}

func newServer(port int, services Services, dbService database.Service) *Server {
	return &Server{
		port:         port,
		userService:  services.Users,
		todoService:  services.Todos,
		statsService: services.Stats,
		db:           dbService,
		pages:        template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func NewServer(cfg *config.Config, services Services, dbService database.Service) *http.Server {
	appServer := newServer(cfg.Port, services, dbService)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
