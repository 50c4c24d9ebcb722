package model

import (
	"time"

	"github.com/google/uuid"
)

// Risk statuses.
const (
	RiskOpen       = "open"
	RiskMitigating = "mitigating"
	RiskAccepted   = "accepted"
	RiskClosed     = "closed"
)

// RiskStatuses lists the accepted risk statuses.
func RiskStatuses() []string {
	return []string{RiskOpen, RiskMitigating, RiskAccepted, RiskClosed}
}

// Risk is an entry in the risk register. Likelihood and impact are 1..5 and
// Score is their product, recomputed on every write.
type Risk struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrgID       uuid.UUID  `gorm:"column:org_id;type:uuid;not null;index" json:"org_id"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description" json:"description"`
	Category    string     `gorm:"column:category" json:"category"`
	Likelihood  int        `gorm:"column:likelihood;not null" json:"likelihood"`
	Impact      int        `gorm:"column:impact;not null" json:"impact"`
	Score       int        `gorm:"column:score;not null" json:"score"`
	Status      string     `gorm:"column:status;not null;default:open" json:"status"`
	Mitigation  string     `gorm:"column:mitigation" json:"mitigation"`
	OwnerID     *uuid.UUID `gorm:"column:owner_id;type:uuid" json:"owner_id,omitempty"`
	ReviewAt    *time.Time `gorm:"column:review_at" json:"review_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Risk) TableName() string {
	return "risks"
}

// Recalculate refreshes Score from likelihood and impact.
func (r *Risk) Recalculate() {
	r.Score = r.Likelihood * r.Impact
}
