package domain

import (
	"strings"
	"time"
)

// NoDueDateSentinel is the date undated todos sort as when listing.
const NoDueDateSentinel = "9999-12-31"

// DateLayout is the ISO 8601 calendar date format used for due dates.
const DateLayout = "2006-01-02"

type Todo struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index:idx_todos_user"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"not null"`
	DueDate   *string   `gorm:"type:varchar(10)"`
	IsDone    bool      `gorm:"not null;default:false;index:idx_todos_done"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TodoView is a todo joined with the name of the user that owns it.
type TodoView struct {
	ID        uint
	UserID    uint
	UserName  string
	Title     string
	DueDate   *string
	IsDone    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoPatch lists the todo fields to change. A nil field is left untouched.
// A DueDate pointing at an empty string clears the due date.
type TodoPatch struct {
	Title   *string
	DueDate *string
	IsDone  *bool
}

func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.DueDate == nil && p.IsDone == nil
}

// NormalizeDueDate trims a due date and maps blank input to nil.
func NormalizeDueDate(due *string) *string {
	if due == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*due)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
