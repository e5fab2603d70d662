package service

import "errors"

// Validation and business-rule failures surfaced by the service layer.
// Storage-level not-found remains gorm.ErrRecordNotFound so callers can
// tell the three cases apart with errors.Is.
var (
	ErrTitleRequired     = errors.New("task title is required")
	ErrNameRequired      = errors.New("category name is required")
	ErrCategoryNotFound  = errors.New("category does not exist")
	ErrProtectedCategory = errors.New("default categories cannot be deleted")
)
