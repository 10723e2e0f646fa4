package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Tomlord1122/todo-board/internal/domain"
	"github.com/Tomlord1122/todo-board/internal/repository"
)

// StatsService computes the dashboard counts.
type StatsService interface {
	Counts(ctx context.Context) (*domain.Counts, error)
}

type statsService struct {
	repo repository.StatsRepository
	now  func() time.Time
}

// NewStatsService uses now to decide what "today" is. Nil means time.Now.
func NewStatsService(repo repository.StatsRepository, now func() time.Time) StatsService {
	if now == nil {
		now = time.Now
	}
	return &statsService{repo: repo, now: now}
}

func (s *statsService) Counts(ctx context.Context) (*domain.Counts, error) {
	today := s.now()

	var counts domain.Counts
	steps := []struct {
		name string
		dst  *int64
		run  func(context.Context) (int64, error)
	}{
		{"total", &counts.Total, s.repo.CountTotal},
		{"open", &counts.Open, s.repo.CountOpen},
		{"done", &counts.Done, s.repo.CountDone},
		{"users", &counts.Users, s.repo.CountUsers},
		{"overdue", &counts.Overdue, func(ctx context.Context) (int64, error) {
			return s.repo.CountOverdue(ctx, today)
		}},
		{"due today", &counts.DueToday, func(ctx context.Context) (int64, error) {
			return s.repo.CountDueToday(ctx, today)
		}},
	}

	for _, step := range steps {
		n, err := step.run(ctx)
		if err != nil {
			log.Printf("Error computing %s count: %v", step.name, err)
			return nil, fmt.Errorf("count %s: %w", step.name, err)
		}
		*step.dst = n
	}
	return &counts, nil
}
