package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskdesk/internal/config"
	"taskdesk/internal/repository"
	"taskdesk/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	store := repository.OpenStore(cfg.DatabasePath)
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("[warn] close store: %v", err)
		}
	}()

	if !store.TestConnection(ctx) {
		// Degrade, don't crash: the UI still comes up, queries fail soft.
		log.Printf("[warn] database %s is not responding", cfg.DatabasePath)
	} else {
		log.Printf("[info] database connected: %s", cfg.DatabasePath)
	}

	categoryRepo := repository.NewCategoryRepository(store)
	taskRepo := repository.NewTaskRepository(store)

	taskSvc := service.NewTaskService(taskRepo, categoryRepo)
	reminderSvc := service.NewReminderService(taskRepo, categoryRepo)

	if summary, err := reminderSvc.DailySummary(ctx, time.Now()); err != nil {
		log.Printf("[warn] summary: %v", err)
	} else {
		fmt.Println(summary)
	}

	if stats, err := taskSvc.GetStatistics(ctx); err == nil {
		log.Printf("[info] tasks: %d total | %d done (%.1f%%) | %d pending | %d overdue",
			stats.Total, stats.Completed, stats.CompletionPercent, stats.Pending, stats.Overdue)
	}

	if cfg.ReminderTime == "" {
		return
	}

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleDaily(cfg.ReminderTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		summary, err := reminderSvc.DailySummary(jobCtx, time.Now())
		if err != nil {
			log.Printf("[warn] digest: %v", err)
			return
		}
		fmt.Println(summary)
	}); err != nil {
		log.Fatalf("schedule digest: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("[info] daily digest scheduled at %s", cfg.ReminderTime)
	<-ctx.Done()
	log.Println("Shutdown complete.")
}
