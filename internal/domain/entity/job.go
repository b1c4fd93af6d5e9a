package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Job is booked cleaning work for a client, made of one or more visits
type Job struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_jobs_tenant_number" json:"tenant_id"`
	Number         string         `gorm:"size:50;not null;uniqueIndex:idx_jobs_tenant_number" json:"number"`
	ClientID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"client_id"`
	PropertyID     *uuid.UUID     `gorm:"type:uuid;index" json:"property_id,omitempty"`
	EstimateID     *uuid.UUID     `gorm:"type:uuid;index" json:"estimate_id,omitempty"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Instructions   *string        `gorm:"type:text" json:"instructions,omitempty"`
	Status         enum.JobStatus `gorm:"default:0;index" json:"status"`
	ScheduledStart *time.Time     `gorm:"index" json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time     `json:"scheduled_end,omitempty"`
	AssignedUserID *uuid.UUID     `gorm:"type:uuid;index" json:"assigned_user_id,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Client    *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Property  *Property     `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	LineItems []JobLineItem `gorm:"foreignKey:JobID" json:"line_items,omitempty"`
	Visits    []JobVisit    `gorm:"foreignKey:JobID" json:"visits,omitempty"`
}

// BeforeCreate generates a UUID before creating a new job
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Job model
func (Job) TableName() string {
	return "jobs"
}

// Pricing prices the job's lines at the given tax rate
func (j *Job) Pricing(taxRate decimal.Decimal) pricing.Breakdown {
	return pricing.ComputePricing(PricingLines(j.LineItems), taxRate)
}

// JobLineItem is one billable row of a job
type JobLineItem struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	JobID uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	LineFields
}

// BeforeCreate generates a UUID before creating a new line
func (li *JobLineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the JobLineItem model
func (JobLineItem) TableName() string {
	return "job_line_items"
}

// JobVisit is one scheduled trip to the property
type JobVisit struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	JobID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"job_id"`
	ScheduledAt     time.Time      `gorm:"not null;index" json:"scheduled_at"`
	DurationMinutes int            `gorm:"default:120" json:"duration_minutes"`
	AssignedUserID  *uuid.UUID     `gorm:"type:uuid;index" json:"assigned_user_id,omitempty"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	Notes           *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new visit
func (v *JobVisit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the JobVisit model
func (JobVisit) TableName() string {
	return "job_visits"
}
