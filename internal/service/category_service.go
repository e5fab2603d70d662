package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"taskdesk/internal/model"
	"taskdesk/internal/repository"
)

// protectedCategoryID is the highest seeded category id; the three
// defaults (Work/Personal/Urgent) can never be deleted.
const protectedCategoryID = 3

// CategoryService wraps category business rules around the repository.
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	taskRepo     *repository.TaskRepository
}

func NewCategoryService(categoryRepo *repository.CategoryRepository, taskRepo *repository.TaskRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, taskRepo: taskRepo}
}

// AddCategory creates a category with a trimmed, non-blank name.
// Creation is idempotent by name: if a category with the same name already
// exists, the existing one is returned instead of an error.
func (s *CategoryService) AddCategory(ctx context.Context, name, icon string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		log.Println("[warn] cannot create category: name is required")
		return nil, ErrNameRequired
	}

	existing, err := s.categoryRepo.FindByName(ctx, name)
	switch {
	case err == nil:
		log.Printf("[info] category %q already exists", name)
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		category := model.NewCategory(name, icon)
		if err := s.categoryRepo.Create(ctx, &category); err != nil {
			return nil, err
		}
		return &category, nil
	default:
		return nil, err
	}
}

// UpdateCategory overwrites name and icon for an existing category.
func (s *CategoryService) UpdateCategory(ctx context.Context, categoryID uint, name, icon string) error {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}

	category.Name = strings.TrimSpace(name)
	category.Icon = strings.TrimSpace(icon)
	if category.Icon == "" {
		category.Icon = model.DefaultIcon
	}

	if _, err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}
	return nil
}

// DeleteCategory removes a custom category and, via the cascade, all of its
// tasks. The seeded defaults are protected. Deleting a populated category is
// allowed but logged.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID uint) error {
	if categoryID <= protectedCategoryID {
		log.Printf("[warn] refusing to delete default category %d", categoryID)
		return ErrProtectedCategory
	}

	if count, err := s.taskRepo.CountByCategory(ctx, categoryID); err == nil && count > 0 {
		log.Printf("[warn] deleting category %d with %d tasks", categoryID, count)
	}

	affected, err := s.categoryRepo.Delete(ctx, categoryID)
	if err != nil {
		return err
	}
	if !affected {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

func (s *CategoryService) Get(ctx context.Context, categoryID uint) (*model.Category, error) {
	return s.categoryRepo.FindByID(ctx, categoryID)
}

func (s *CategoryService) GetByName(ctx context.Context, name string) (*model.Category, error) {
	return s.categoryRepo.FindByName(ctx, name)
}
