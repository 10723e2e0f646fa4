package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tomlord1122/todo-board/internal/config"
	"github.com/Tomlord1122/todo-board/internal/database"
	"github.com/Tomlord1122/todo-board/internal/repository"
	"github.com/Tomlord1122/todo-board/internal/server"
	"github.com/Tomlord1122/todo-board/internal/service"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is currently handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Closing database connection pool...")
	if err := dbService.Close(); err != nil {
		log.Printf("Error closing database connection pool: %v", err)
	} else {
		log.Println("Database connection pool closed.")
	}

	log.Println("Server exiting")

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	log.Printf("Migrating %s schema...", cfg.Database.Driver)
	if err := dbService.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	gormDB := dbService.GetDB()
	now := cfg.Database.Clock()

	services := server.Services{
		Users: service.NewUserService(repository.NewGormUserRepository(gormDB)),
		Todos: service.NewTodoService(repository.NewGormTodoRepository(gormDB), now),
		Stats: service.NewStatsService(repository.NewGormStatsRepository(gormDB), now),
	}

	apiServer := server.NewServer(cfg, services, dbService)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, done)

	log.Printf("Starting server on %s", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
