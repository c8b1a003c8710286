package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	Deadline    *time.Time
	OwnerID     uint          `gorm:"not null;index"`
	Members     pq.Int64Array `gorm:"type:integer[]"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID"`
}

// HasMember reports whether userID appears in the members array. Ownership is
// tracked separately and never implies membership.
func (p *Project) HasMember(userID uint) bool {
	for _, id := range p.Members {
		if uint(id) == userID {
			return true
		}
	}
	return false
}

// CanView reports whether userID is the owner or a member.
func (p *Project) CanView(userID uint) bool {
	return p.OwnerID == userID || p.HasMember(userID)
}
