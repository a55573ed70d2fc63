package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"devtrack-backend/internal/config"
	"devtrack-backend/internal/repository"
)

// SyncScheduler periodically re-queues active projects whose GitHub
// metadata has gone stale, so dashboard cards stay current without
// anyone pressing the sync button.
type SyncScheduler struct {
	cron     *cron.Cron
	projects *repository.ProjectRepo
	service  *ProjectService
	staleAge time.Duration
}

func NewSyncScheduler(cfg *config.Config, projects *repository.ProjectRepo, service *ProjectService) *SyncScheduler {
	return &SyncScheduler{
		cron:     cron.New(),
		projects: projects,
		service:  service,
		staleAge: time.Duration(cfg.SyncStaleMinutes) * time.Minute,
	}
}

func (s *SyncScheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.enqueueStale); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("✓ Project sync scheduler started")
	return nil
}

func (s *SyncScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *SyncScheduler) enqueueStale() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.staleAge)
	stale, err := s.projects.StaleActive(ctx, cutoff)
	if err != nil {
		log.Printf("sync scheduler: listing stale projects: %v", err)
		return
	}

	for _, p := range stale {
		s.service.EnqueueSync(ctx, p.ID, p.UserID)
	}
	if len(stale) > 0 {
		log.Printf("sync scheduler: queued %d stale projects", len(stale))
	}
}
