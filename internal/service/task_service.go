package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

// TaskInput carries the caller-supplied fields for creating or updating
// a task.
type TaskInput struct {
	Title       string
	Description string
	CategoryID  uint
	DueDate     *time.Time
}

// Statistics aggregates completion counts across all tasks.
type Statistics struct {
	Total             int64
	Completed         int64
	Pending           int64
	Overdue           int64
	CompletionPercent float64
}

// TaskService is the boundary the UI calls for everything task-related.
// It validates input and enforces the business rules the repositories
// do not.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo}
}

// AddTask validates and persists a new task. The title must be non-blank
// and the category must exist.
func (s *TaskService) AddTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		log.Println("[warn] cannot create task: title is required")
		return nil, ErrTitleRequired
	}

	ok, err := s.categoryRepo.Exists(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Printf("[warn] cannot create task: unknown category %d", input.CategoryID)
		return nil, ErrCategoryNotFound
	}

	task := model.NewDetailedTask(input.Title, input.Description, input.CategoryID, input.DueDate)
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask overwrites the mutable fields of an existing task.
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint, input TaskInput) error {
	if strings.TrimSpace(input.Title) == "" {
		log.Println("[warn] cannot update task: title is required")
		return ErrTitleRequired
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}

	task.Title = strings.TrimSpace(input.Title)
	task.Description = strings.TrimSpace(input.Description)
	task.CategoryID = input.CategoryID
	task.DueDate = model.NormalizeDate(input.DueDate)

	if _, err := s.taskRepo.Update(ctx, task); err != nil {
		return err
	}
	return nil
}

// MarkTaskDone sets the completion flag to the given value.
func (s *TaskService) MarkTaskDone(ctx context.Context, taskID uint, isDone bool) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	task.IsDone = isDone
	if _, err := s.taskRepo.Update(ctx, task); err != nil {
		return err
	}
	return nil
}

// ToggleTaskDone flips the completion flag atomically in storage.
func (s *TaskService) ToggleTaskDone(ctx context.Context, taskID uint) error {
	affected, err := s.taskRepo.ToggleDone(ctx, taskID)
	if err != nil {
		return err
	}
	if !affected {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID uint) error {
	affected, err := s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return err
	}
	if !affected {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCompletedTasks removes every completed task and reports the count.
func (s *TaskService) DeleteCompletedTasks(ctx context.Context) (int64, error) {
	deleted, err := s.taskRepo.DeleteCompleted(ctx)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Printf("[info] deleted %d completed tasks", deleted)
	}
	return deleted, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, taskID)
}

func (s *TaskService) ListAll(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.FindAll(ctx)
}

func (s *TaskService) ListByCategory(ctx context.Context, categoryID uint) ([]model.Task, error) {
	return s.taskRepo.FindByCategory(ctx, categoryID)
}

// ListByCategoryName resolves the category by exact name first.
// An unknown name yields an empty list, not an error.
func (s *TaskService) ListByCategoryName(ctx context.Context, name string) ([]model.Task, error) {
	category, err := s.categoryRepo.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []model.Task{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.taskRepo.FindByCategory(ctx, category.ID)
}

func (s *TaskService) ListPending(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.FindByStatus(ctx, false)
}

func (s *TaskService) ListCompleted(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.FindByStatus(ctx, true)
}

// ListOverdue returns pending tasks due today or earlier, earliest first.
func (s *TaskService) ListOverdue(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.FindDueTasks(ctx)
}

// Search returns tasks matching the query in title or description.
// A blank query returns all tasks.
func (s *TaskService) Search(ctx context.Context, query string) ([]model.Task, error) {
	if strings.TrimSpace(query) == "" {
		return s.taskRepo.FindAll(ctx)
	}
	return s.taskRepo.Search(ctx, strings.TrimSpace(query))
}

// Filter combines three independent predicates: category (nil = all),
// completion visibility, and a free-text search.
func (s *TaskService) Filter(ctx context.Context, categoryID *uint, showCompleted bool, query string) ([]model.Task, error) {
	var tasks []model.Task
	var err error
	if categoryID != nil {
		tasks, err = s.taskRepo.FindByCategory(ctx, *categoryID)
	} else {
		tasks, err = s.taskRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if !showCompleted && task.IsDone {
			continue
		}
		if !task.MatchesSearch(query) {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered, nil
}

// GetStatistics computes aggregate completion counts. An empty task set
// yields zero percent, never a division by zero.
func (s *TaskService) GetStatistics(ctx context.Context) (Statistics, error) {
	total, err := s.taskRepo.Count(ctx)
	if err != nil {
		return Statistics{}, err
	}
	completed, err := s.taskRepo.CountByStatus(ctx, true)
	if err != nil {
		return Statistics{}, err
	}
	due, err := s.taskRepo.FindDueTasks(ctx)
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
		Overdue:   int64(len(due)),
	}
	if total > 0 {
		stats.CompletionPercent = float64(completed) * 100 / float64(total)
	}
	return stats, nil
}
