package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team groups persons and may nest under a parent team. PosX/PosY hold the
// position of the team's card on the org chart canvas.
type Team struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID       uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Slug        string         `gorm:"column:slug;not null" json:"slug"`
	Description string         `gorm:"column:description" json:"description"`
	ParentID    *uuid.UUID     `gorm:"column:parent_id;type:uuid" json:"parent_id,omitempty"`
	LeadID      *uuid.UUID     `gorm:"column:lead_id;type:uuid" json:"lead_id,omitempty"`
	PosX        float64        `gorm:"column:pos_x;not null;default:0" json:"pos_x"`
	PosY        float64        `gorm:"column:pos_y;not null;default:0" json:"pos_y"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Team) TableName() string {
	return "teams"
}
