package repository

import (
	"context"
	"fmt"

	"taskdesk/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	store *Store
}

func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// Create inserts the category and fills in the generated ID.
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return err
	}
	if err := db.Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var category model.Category
	if err := db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName performs an exact, case-sensitive lookup.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var category model.Category
	if err := db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	var categories []model.Category
	if err := db.Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update overwrites name and icon for the category's ID.
// Returns false when no row was affected.
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) (bool, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return false, err
	}
	res := db.Model(&model.Category{}).Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name": category.Name,
			"icon": category.Icon,
		})
	if res.Error != nil {
		return false, fmt.Errorf("update category: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the category; the foreign-key cascade removes its tasks.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) (bool, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return false, err
	}
	res := db.Delete(&model.Category{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete category: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	db, err := r.store.Conn(ctx)
	if err != nil {
		return false, err
	}
	var count int64
	if err := db.Model(&model.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
