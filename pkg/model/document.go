package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document statuses.
const (
	DocumentDraft     = "draft"
	DocumentPublished = "published"
	DocumentArchived  = "archived"
)

// DocumentStatuses lists the accepted document statuses.
func DocumentStatuses() []string {
	return []string{DocumentDraft, DocumentPublished, DocumentArchived}
}

// Document is a policy or handbook page. Content lives in numbered
// DocumentVersion rows; CurrentVersionID points at the published one.
type Document struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID            uuid.UUID      `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Title            string         `gorm:"column:title;not null" json:"title"`
	Slug             string         `gorm:"column:slug;not null" json:"slug"`
	Category         string         `gorm:"column:category" json:"category"`
	Status           string         `gorm:"column:status;not null;default:draft" json:"status"`
	CurrentVersionID *uuid.UUID     `gorm:"column:current_version_id;type:uuid" json:"current_version_id,omitempty"`
	OwnerID          *uuid.UUID     `gorm:"column:owner_id;type:uuid" json:"owner_id,omitempty"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}
