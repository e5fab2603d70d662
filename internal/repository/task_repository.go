package repository

import (
	"context"
	"fmt"

	"taskdesk/internal/model"
)

// taskOrder lists newest tasks first; the id tiebreak keeps same-day
// insertions in reverse insertion order.
const taskOrder = "created_at DESC, id DESC"

// TaskRepository handles CRUD and filtered queries for tasks.
type TaskRepository struct {
	store *Store
}

func NewTaskRepository(store *Store) *TaskRepository {
	return &TaskRepository{store: store}
}

// Create inserts the task and fills in the generated ID.
// CreatedAt defaults to today when unset; dates are normalized to
// calendar precision.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return err
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = model.Today()
	} else {
		task.CreatedAt = model.DateOnly(task.CreatedAt)
	}
	task.DueDate = model.NormalizeDate(task.DueDate)
	if err := db.Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var task model.Task
	if err := db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	return r.list(ctx, nil)
}

func (r *TaskRepository) FindByCategory(ctx context.Context, categoryID uint) ([]model.Task, error) {
	return r.list(ctx, map[string]interface{}{"category_id": categoryID})
}

func (r *TaskRepository) FindByStatus(ctx context.Context, isDone bool) ([]model.Task, error) {
	return r.list(ctx, map[string]interface{}{"is_done": isDone})
}

// Search matches the query as a case-insensitive substring of the title or
// description. A blank query matches everything. Matching happens in Go with
// the same predicate the in-memory filter uses: SQLite's lower() and NOCASE
// fold ASCII only, which would make the two paths disagree on non-ASCII
// titles. The store is small by design, so scanning it is fine.
func (r *TaskRepository) Search(ctx context.Context, query string) ([]model.Task, error) {
	tasks, err := r.list(ctx, nil)
	if err != nil {
		return nil, err
	}
	matched := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.MatchesSearch(query) {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

// FindDueTasks returns pending tasks due today or earlier,
// earliest (most overdue) first.
func (r *TaskRepository) FindDueTasks(ctx context.Context) ([]model.Task, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	if err := db.Where("is_done = ? AND due_date IS NOT NULL AND due_date <= ?", false, model.Today()).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, nil)
}

func (r *TaskRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	return r.count(ctx, map[string]interface{}{"category_id": categoryID})
}

func (r *TaskRepository) CountByStatus(ctx context.Context, isDone bool) (int64, error) {
	return r.count(ctx, map[string]interface{}{"is_done": isDone})
}

// Update overwrites the mutable columns for the task's ID. The id and
// created_at columns never change after creation. Returns false when no
// row was affected.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) (bool, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return false, err
	}
	res := db.Model(&model.Task{}).Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"category_id": task.CategoryID,
			"due_date":    model.NormalizeDate(task.DueDate),
			"is_done":     task.IsDone,
		})
	if res.Error != nil {
		return false, fmt.Errorf("update task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ToggleDone flips is_done in storage without reading the row first.
func (r *TaskRepository) ToggleDone(ctx context.Context, id uint) (bool, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return false, err
	}
	res := db.Exec("UPDATE tasks SET is_done = NOT is_done WHERE id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("toggle task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) (bool, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return false, err
	}
	res := db.Delete(&model.Task{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteCompleted removes every completed task and returns how many went.
func (r *TaskRepository) DeleteCompleted(ctx context.Context) (int64, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return 0, err
	}
	res := db.Where("is_done = ?", true).Delete(&model.Task{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete completed tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *TaskRepository) list(ctx context.Context, conds map[string]interface{}) ([]model.Task, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	q := db.Order(taskOrder)
	if len(conds) > 0 {
		q = q.Where(conds)
	}
	var tasks []model.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) count(ctx context.Context, conds map[string]interface{}) (int64, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return 0, err
	}
	q := db.Model(&model.Task{})
	if len(conds) > 0 {
		q = q.Where(conds)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
