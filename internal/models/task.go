package models

import (
	"time"

	"gorm.io/gorm"
)

// Task status values.
const (
	StatusToDo       = "to-do"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

type Task struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	ProjectID   uint   `gorm:"not null;index"`
	AssignedTo  *uint  `gorm:"index"`
	Status      string `gorm:"not null;default:to-do"`
	Deadline    *time.Time

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID"`
}
