package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

// ReminderService builds human-readable summaries of what needs attention.
type ReminderService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewReminderService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *ReminderService {
	return &ReminderService{taskRepo: taskRepo, categoryRepo: categoryRepo}
}

// DailySummary renders the day's overdue and due-soon tasks plus overall
// counts as plain text suitable for a log line or notification.
func (s *ReminderService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	pending, err := s.taskRepo.FindByStatus(ctx, false)
	if err != nil {
		return "", err
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return "", err
	}
	catNames := make(map[uint]string, len(categories))
	for _, cat := range categories {
		catNames[cat.ID] = cat.DisplayText()
	}

	var overdue, dueSoon []model.Task
	for _, task := range pending {
		switch {
		case task.OverdueOn(now):
			overdue = append(overdue, task)
		case task.DueSoonOn(now):
			dueSoon = append(dueSoon, task)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily summary for %s\n", model.DateOnly(now).Format(time.DateOnly))

	b.WriteString("Overdue:\n")
	if len(overdue) == 0 {
		b.WriteString("  - nothing overdue\n")
	}
	for _, task := range overdue {
		writeSummaryLine(&b, task, catNames)
	}

	b.WriteString("Due soon:\n")
	if len(dueSoon) == 0 {
		b.WriteString("  - nothing due in the next few days\n")
	}
	for _, task := range dueSoon {
		writeSummaryLine(&b, task, catNames)
	}

	total, err := s.taskRepo.Count(ctx)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "%d pending of %d total", len(pending), total)

	return b.String(), nil
}

func writeSummaryLine(b *strings.Builder, task model.Task, catNames map[uint]string) {
	line := fmt.Sprintf("  - #%d %s", task.ID, task.Title)
	if name, ok := catNames[task.CategoryID]; ok {
		line += " (" + name + ")"
	}
	if task.DueDate != nil {
		line += " due " + task.DueDate.Format(time.DateOnly)
	}
	b.WriteString(line + "\n")
}
