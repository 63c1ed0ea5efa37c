package services

import (
	"context"
	"log"
	"time"

	"taskboard-be/internal/repository"

	"github.com/robfig/cron/v3"
)

// StartCleanupWorker schedules the orphan sweep. Cascade deletes run without
// a cross-collection transaction, so a crash between steps can leave columns
// or tasks pointing at a project that no longer exists; the sweep deletes
// them on the configured schedule. Returns the cron so the caller can stop
// it on shutdown.
func StartCleanupWorker(schedule string, projectRepo *repository.ProjectRepository, columnRepo *repository.ColumnRepository, taskRepo *repository.TaskRepository) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		SweepOrphans(ctx, projectRepo, columnRepo, taskRepo)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Println("cleanup worker: scheduled", schedule)
	return c, nil
}

// SweepOrphans removes columns and tasks whose project id no longer
// resolves. Idempotent; safe to run at any time.
func SweepOrphans(ctx context.Context, projectRepo *repository.ProjectRepository, columnRepo *repository.ColumnRepository, taskRepo *repository.TaskRepository) {
	columnProjects, err := columnRepo.DistinctProjectIDs(ctx)
	if err != nil {
		log.Println("cleanup worker: listing column projects:", err)
		return
	}
	taskProjects, err := taskRepo.DistinctProjectIDs(ctx)
	if err != nil {
		log.Println("cleanup worker: listing task projects:", err)
		return
	}

	var removedColumns, removedTasks int64
	for _, id := range columnProjects {
		exists, err := projectRepo.Exists(ctx, id)
		if err != nil {
			log.Println("cleanup worker: checking project", id.Hex(), ":", err)
			continue
		}
		if !exists {
			n, err := columnRepo.DeleteByProject(ctx, id)
			if err != nil {
				log.Println("cleanup worker: deleting orphan columns:", err)
				continue
			}
			removedColumns += n
		}
	}
	for _, id := range taskProjects {
		exists, err := projectRepo.Exists(ctx, id)
		if err != nil {
			log.Println("cleanup worker: checking project", id.Hex(), ":", err)
			continue
		}
		if !exists {
			n, err := taskRepo.DeleteByProject(ctx, id)
			if err != nil {
				log.Println("cleanup worker: deleting orphan tasks:", err)
				continue
			}
			removedTasks += n
		}
	}

	if removedColumns > 0 || removedTasks > 0 {
		log.Printf("cleanup worker: removed %d orphan columns, %d orphan tasks", removedColumns, removedTasks)
	}
}
