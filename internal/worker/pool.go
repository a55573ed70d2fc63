package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"devtrack-backend/internal/services"
)

// Pool runs the project sync workers. Each worker blocks on the sync
// queue and refreshes one project's GitHub metadata at a time.
type Pool struct {
	redis       *redis.Client
	projects    *services.ProjectService
	workerCount int
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, projects *services.ProjectService, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		projects:    projects,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d sync worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Sync worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, services.SyncQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job services.SyncJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Sync worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Skip if another worker already has this project.
		lockKey := fmt.Sprintf("sync_lock:%s", job.ProjectID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 2*time.Minute).Result()
		if err != nil || !locked {
			continue
		}

		if err := p.projects.Sync(ctx, job.ProjectID); err != nil {
			log.Printf("Sync worker %d: project %s: %v", id, job.ProjectID, err)
		}

		p.redis.Del(ctx, lockKey)
	}
}
