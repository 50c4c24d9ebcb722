package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Person lifecycle statuses.
const (
	PersonOnboarding  = "onboarding"
	PersonActive      = "active"
	PersonOffboarding = "offboarding"
	PersonLeft        = "left"
)

// PersonStatuses lists the accepted person statuses.
func PersonStatuses() []string {
	return []string{PersonOnboarding, PersonActive, PersonOffboarding, PersonLeft}
}

// Person is an entry in the HR directory. Email is unique per organization
// among live rows; ManagerID forms the reporting tree and must stay acyclic.
type Person struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID      uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	FirstName  string         `gorm:"column:first_name;not null" json:"first_name"`
	LastName   string         `gorm:"column:last_name;not null" json:"last_name"`
	Email      string         `gorm:"column:email;not null" json:"email"`
	Title      string         `gorm:"column:title" json:"title"`
	Department string         `gorm:"column:department" json:"department"`
	Location   string         `gorm:"column:location" json:"location"`
	Phone      string         `gorm:"column:phone" json:"phone"`
	Status     string         `gorm:"column:status;not null;default:active" json:"status"`
	ManagerID  *uuid.UUID     `gorm:"column:manager_id;type:uuid" json:"manager_id,omitempty"`
	TeamID     *uuid.UUID     `gorm:"column:team_id;type:uuid" json:"team_id,omitempty"`
	StartDate  *time.Time     `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate    *time.Time     `gorm:"column:end_date" json:"end_date,omitempty"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Person) TableName() string {
	return "persons"
}

// FullName joins first and last name for display.
func (p *Person) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
