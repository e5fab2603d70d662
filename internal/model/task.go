package model

import (
	"fmt"
	"strings"
	"time"
)

// DueSoonDays is the window within which a pending task counts as due soon.
const DueSoonDays = 3

const displayDateLayout = "Jan 02, 2006"

// Task represents a single item in the planner.
//
// DueDate and CreatedAt are calendar dates: they carry no meaningful time
// component and are normalized to midnight UTC before storage so the SQLite
// round trip preserves date equality.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	CategoryID  uint       `gorm:"not null;index"`
	DueDate     *time.Time `gorm:"type:date"`
	IsDone      bool       `gorm:"default:false;index"`
	CreatedAt   time.Time  `gorm:"type:date;autoCreateTime:false"`
}

// NewTask builds an unpersisted task with only the required fields.
// CreatedAt defaults to today.
func NewTask(title string, categoryID uint) Task {
	return Task{
		Title:      strings.TrimSpace(title),
		CategoryID: categoryID,
		CreatedAt:  Today(),
	}
}

// NewDetailedTask builds an unpersisted task with description and due date.
func NewDetailedTask(title, description string, categoryID uint, dueDate *time.Time) Task {
	t := NewTask(title, categoryID)
	t.Description = strings.TrimSpace(description)
	t.DueDate = NormalizeDate(dueDate)
	return t
}

// IsPersisted reports whether the task has been stored (ID assigned).
func (t Task) IsPersisted() bool {
	return t.ID > 0
}

// ToggleDone flips the completion flag in memory.
func (t *Task) ToggleDone() {
	t.IsDone = !t.IsDone
}

// OverdueOn reports whether the task is past due as of the given day:
// it has a due date, is not done, and the due date is strictly before day.
func (t Task) OverdueOn(day time.Time) bool {
	if t.DueDate == nil || t.IsDone {
		return false
	}
	return t.DueDate.Before(DateOnly(day))
}

// IsOverdue is OverdueOn evaluated at the current date.
func (t Task) IsOverdue() bool {
	return t.OverdueOn(time.Now())
}

// DueSoonOn reports whether the task falls inside the due-soon window as of
// the given day: pending, not overdue, due within DueSoonDays (inclusive).
func (t Task) DueSoonOn(day time.Time) bool {
	if t.DueDate == nil || t.IsDone || t.OverdueOn(day) {
		return false
	}
	limit := DateOnly(day).AddDate(0, 0, DueSoonDays)
	return !t.DueDate.After(limit)
}

// IsDueSoon is DueSoonOn evaluated at the current date.
func (t Task) IsDueSoon() bool {
	return t.DueSoonOn(time.Now())
}

// MatchesSearch reports whether the query occurs in the title or description,
// case-insensitively. A blank query matches every task.
func (t Task) MatchesSearch(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), query) ||
		strings.Contains(strings.ToLower(t.Description), query)
}

// Equal compares persisted tasks by ID; unpersisted tasks compare by
// title, category and creation date.
func (t Task) Equal(other Task) bool {
	if t.IsPersisted() && other.IsPersisted() {
		return t.ID == other.ID
	}
	return t.Title == other.Title &&
		t.CategoryID == other.CategoryID &&
		t.CreatedAt.Equal(other.CreatedAt)
}

// DisplayTitle prefixes the title with a status glyph for list rendering.
func (t Task) DisplayTitle() string {
	switch {
	case t.IsDone:
		return "✓ " + t.Title
	case t.IsOverdue():
		return "🔴 " + t.Title
	case t.IsDueSoon():
		return "🟡 " + t.Title
	default:
		return t.Title
	}
}

// FormattedDueDate renders the due date for display, or a placeholder.
func (t Task) FormattedDueDate() string {
	if t.DueDate == nil {
		return "No due date"
	}
	return t.DueDate.Format(displayDateLayout)
}

// FormattedCreatedAt renders the creation date for display.
func (t Task) FormattedCreatedAt() string {
	return t.CreatedAt.Format(displayDateLayout)
}

func (t Task) String() string {
	due := "none"
	if t.DueDate != nil {
		due = t.DueDate.Format(time.DateOnly)
	}
	return fmt.Sprintf("Task{id=%d, title=%q, category=%d, done=%t, due=%s}",
		t.ID, t.Title, t.CategoryID, t.IsDone, due)
}

// DateOnly truncates a timestamp to its calendar date at midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date at midnight UTC.
func Today() time.Time {
	return DateOnly(time.Now())
}

// NormalizeDate truncates an optional timestamp to a calendar date.
func NormalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := DateOnly(*t)
	return &d
}
