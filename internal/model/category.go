package model

import "strings"

// DefaultIcon is used when a category is created without a glyph.
const DefaultIcon = "📁"

// Category groups tasks by area (Work, Personal, Urgent, or custom ones).
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
	Icon string `gorm:"default:📁"`

	Tasks []Task `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// NewCategory builds an unpersisted category with a trimmed name.
// A blank icon falls back to DefaultIcon.
func NewCategory(name, icon string) Category {
	icon = strings.TrimSpace(icon)
	if icon == "" {
		icon = DefaultIcon
	}
	return Category{Name: strings.TrimSpace(name), Icon: icon}
}

// IsPersisted reports whether the category has been stored (ID assigned).
func (c Category) IsPersisted() bool {
	return c.ID > 0
}

// Equal compares persisted categories by ID and unpersisted ones by name.
func (c Category) Equal(other Category) bool {
	if c.IsPersisted() && other.IsPersisted() {
		return c.ID == other.ID
	}
	return c.Name == other.Name
}

// DisplayText returns "icon name" for list rendering.
func (c Category) DisplayText() string {
	return c.Icon + " " + c.Name
}
