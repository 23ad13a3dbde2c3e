package models

import "gorm.io/gorm"

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// CategoryState tells whether a category is live or soft-deleted.
type CategoryState string

const (
	CategoryActive  CategoryState = "active"
	CategoryDeleted CategoryState = "deleted"
)

// TransactionCategory groups transactions. Deleting one only hides it;
// creating a category with the same title and type brings it back.
type TransactionCategory struct {
	Base
	UserID string       `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_title_type" json:"user_id"`
	Title  string       `gorm:"not null;uniqueIndex:idx_categories_user_title_type" json:"title"`
	Type   CategoryType `gorm:"not null;uniqueIndex:idx_categories_user_title_type" json:"type"`

	State CategoryState `gorm:"-" json:"state"`
}

// AfterFind derives State from the soft-delete column.
func (c *TransactionCategory) AfterFind(_ *gorm.DB) error {
	c.State = c.currentState()
	return nil
}

func (c *TransactionCategory) currentState() CategoryState {
	if c.IsDeleted() {
		return CategoryDeleted
	}
	return CategoryActive
}
