package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

type fixture struct {
	store       *repository.Store
	tasks       *TaskService
	categories  *CategoryService
	taskRepo    *repository.TaskRepository
	catRepo     *repository.CategoryRepository
	reminderSvc *ReminderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.OpenStore(filepath.Join(t.TempDir(), "tasks.db"))
	t.Cleanup(func() { _ = store.Close() })

	catRepo := repository.NewCategoryRepository(store)
	taskRepo := repository.NewTaskRepository(store)
	return &fixture{
		store:       store,
		tasks:       NewTaskService(taskRepo, catRepo),
		categories:  NewCategoryService(catRepo, taskRepo),
		taskRepo:    taskRepo,
		catRepo:     catRepo,
		reminderSvc: NewReminderService(taskRepo, catRepo),
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAddTaskValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.tasks.AddTask(ctx, TaskInput{Title: "   ", CategoryID: 1})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = f.tasks.AddTask(ctx, TaskInput{Title: "orphan", CategoryID: 999})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	all, listErr := f.tasks.ListAll(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, all, "failed creates leave the store untouched")
}

func TestAddTaskAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.tasks.AddTask(ctx, TaskInput{
		Title:       "  Write spec  ",
		Description: " with details ",
		CategoryID:  1,
		DueDate:     datePtr(2025, time.January, 10),
	})
	require.NoError(t, err)
	assert.True(t, created.IsPersisted())

	found, err := f.tasks.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write spec", found.Title)
	assert.Equal(t, "with details", found.Description)
	assert.Equal(t, uint(1), found.CategoryID)
	assert.False(t, found.IsDone)
	require.NotNil(t, found.DueDate)
	assert.True(t, found.DueDate.Equal(*datePtr(2025, time.January, 10)))
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.tasks.AddTask(ctx, TaskInput{Title: "draft", CategoryID: 1})
	require.NoError(t, err)

	err = f.tasks.UpdateTask(ctx, created.ID, TaskInput{Title: " ", CategoryID: 1})
	assert.ErrorIs(t, err, ErrTitleRequired)

	err = f.tasks.UpdateTask(ctx, 999, TaskInput{Title: "x", CategoryID: 1})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = f.tasks.UpdateTask(ctx, created.ID, TaskInput{
		Title:      "final",
		CategoryID: 2,
		DueDate:    datePtr(2025, time.May, 1),
	})
	require.NoError(t, err)

	found, err := f.tasks.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", found.Title)
	assert.Equal(t, uint(2), found.CategoryID)
}

func TestToggleAndMarkDone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.tasks.AddTask(ctx, TaskInput{Title: "flip", CategoryID: 1})
	require.NoError(t, err)

	require.NoError(t, f.tasks.ToggleTaskDone(ctx, created.ID))
	found, err := f.tasks.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found.IsDone)

	require.NoError(t, f.tasks.ToggleTaskDone(ctx, created.ID))
	found, err = f.tasks.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found.IsDone, "two toggles cancel out")

	err = f.tasks.ToggleTaskDone(ctx, 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, f.tasks.MarkTaskDone(ctx, created.ID, true))
	found, err = f.tasks.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found.IsDone)
}

func TestDeleteCompletedTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	open, err := f.tasks.AddTask(ctx, TaskInput{Title: "open", CategoryID: 1})
	require.NoError(t, err)
	for _, title := range []string{"done a", "done b"} {
		created, err := f.tasks.AddTask(ctx, TaskInput{Title: title, CategoryID: 1})
		require.NoError(t, err)
		require.NoError(t, f.tasks.MarkTaskDone(ctx, created.ID, true))
	}

	deleted, err := f.tasks.DeleteCompletedTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := f.tasks.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, open.ID, remaining[0].ID)
}

func TestSearchBlankQueryReturnsAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.tasks.AddTask(ctx, TaskInput{Title: "alpha", CategoryID: 1})
	require.NoError(t, err)
	_, err = f.tasks.AddTask(ctx, TaskInput{Title: "beta", CategoryID: 1})
	require.NoError(t, err)

	all, err := f.tasks.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := f.tasks.Search(ctx, "ALPHA")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "alpha", matched[0].Title)
}

func TestListByCategoryName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.tasks.AddTask(ctx, TaskInput{Title: "meeting", CategoryID: 1})
	require.NoError(t, err)

	tasks, err := f.tasks.ListByCategoryName(ctx, "Work")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	tasks, err = f.tasks.ListByCategoryName(ctx, "Nope")
	require.NoError(t, err)
	assert.Empty(t, tasks, "unknown category name yields an empty list")
}

func TestFilterTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.tasks.AddTask(ctx, TaskInput{Title: "work report", CategoryID: 1})
	require.NoError(t, err)
	donePersonal, err := f.tasks.AddTask(ctx, TaskInput{Title: "groceries", CategoryID: 2})
	require.NoError(t, err)
	require.NoError(t, f.tasks.MarkTaskDone(ctx, donePersonal.ID, true))
	_, err = f.tasks.AddTask(ctx, TaskInput{Title: "call plumber", CategoryID: 2})
	require.NoError(t, err)

	// No category, hide completed, no query: exactly the pending subset.
	pending, err := f.tasks.Filter(ctx, nil, false, "")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, task := range pending {
		assert.False(t, task.IsDone)
	}

	personal := uint(2)
	all, err := f.tasks.Filter(ctx, &personal, true, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hidden, err := f.tasks.Filter(ctx, &personal, false, "")
	require.NoError(t, err)
	require.Len(t, hidden, 1)
	assert.Equal(t, "call plumber", hidden[0].Title)

	searched, err := f.tasks.Filter(ctx, &personal, true, "GROC")
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "groceries", searched[0].Title)
}

func TestStatisticsEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	stats, err := f.tasks.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, Statistics{}, stats, "empty set yields all zeros, no division fault")
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	yesterday := model.Today().AddDate(0, 0, -1)
	_, err := f.tasks.AddTask(ctx, TaskInput{Title: "late", CategoryID: 1, DueDate: &yesterday})
	require.NoError(t, err)
	_, err = f.tasks.AddTask(ctx, TaskInput{Title: "open", CategoryID: 1})
	require.NoError(t, err)
	done, err := f.tasks.AddTask(ctx, TaskInput{Title: "done", CategoryID: 1})
	require.NoError(t, err)
	require.NoError(t, f.tasks.MarkTaskDone(ctx, done.ID, true))

	stats, err := f.tasks.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Overdue)
	assert.InDelta(t, 100.0/3, stats.CompletionPercent, 0.01)
}

// End-to-end scenario from the product side: custom category, overdue task,
// completion clears the overdue state.
func TestOverdueScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	health, err := f.categories.AddCategory(ctx, "Health", "🏃")
	require.NoError(t, err)
	assert.Equal(t, uint(4), health.ID)

	task, err := f.tasks.AddTask(ctx, TaskInput{
		Title:      "Run 5k",
		CategoryID: health.ID,
		DueDate:    datePtr(2025, time.March, 1),
	})
	require.NoError(t, err)

	after := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)
	assert.True(t, task.OverdueOn(after))
	assert.False(t, task.OverdueOn(before))

	require.NoError(t, f.tasks.MarkTaskDone(ctx, task.ID, true))
	found, err := f.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, found.OverdueOn(after), "done tasks are never overdue")
}
