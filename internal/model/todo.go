package model

import (
	"strings"
	"time"
)

// Priority is the urgency label attached to a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultCategory is used when no classification is available.
const DefaultCategory = "General"

// Valid reports whether p is one of low, medium or high.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo is one task owned by a user.
type Todo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Category  string    `json:"category"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

// TodoPatch carries the fields of an update; nil fields are left untouched.
// ID, UserID and CreatedAt are immutable and therefore absent.
type TodoPatch struct {
	Text      *string   `json:"text,omitempty"`
	Completed *bool     `json:"completed,omitempty"`
	Category  *string   `json:"category,omitempty"`
	Priority  *Priority `json:"priority,omitempty"`
}

// Apply merges the non-nil fields of p over t.
func (p TodoPatch) Apply(t Todo) Todo {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}

// Classification is the priority/category pair assigned to a task at creation.
type Classification struct {
	Priority Priority `json:"priority"`
	Category string   `json:"category"`
}

// DefaultClassification is {medium, General}.
func DefaultClassification() Classification {
	return Classification{Priority: PriorityMedium, Category: DefaultCategory}
}

// Normalize replaces an out-of-range priority with medium and a blank
// category with General.
func (c Classification) Normalize() Classification {
	if !c.Priority.Valid() {
		c.Priority = PriorityMedium
	}
	c.Category = strings.TrimSpace(c.Category)
	if c.Category == "" {
		c.Category = DefaultCategory
	}
	return c
}

// CreateTodoRequest represents a task creation request.
type CreateTodoRequest struct {
	Text string `json:"text"`
}
