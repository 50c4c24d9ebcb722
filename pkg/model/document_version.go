package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentVersion is one immutable revision of a document's Markdown body.
// Version numbers are assigned server-side, starting at 1 per document.
type DocumentVersion struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID      uuid.UUID `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	DocumentID uuid.UUID `gorm:"column:document_id;type:uuid;not null;index" json:"document_id"`
	Version    int       `gorm:"column:version;not null" json:"version"`
	Body       string    `gorm:"column:body;not null" json:"body"`
	ChangeNote string    `gorm:"column:change_note" json:"change_note"`
	CreatedBy  string    `gorm:"column:created_by;not null" json:"created_by"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (DocumentVersion) TableName() string {
	return "document_versions"
}
