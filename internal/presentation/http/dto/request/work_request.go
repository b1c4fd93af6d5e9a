package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one billable row. Quantity and unit price accept JSON
// numbers or numeric strings.
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// EstimateRequest creates or replaces an estimate
type EstimateRequest struct {
	ClientID   uuid.UUID         `json:"client_id" binding:"required"`
	PropertyID *uuid.UUID        `json:"property_id"`
	Title      string            `json:"title" binding:"omitempty,max=255"`
	TaxRate    *decimal.Decimal  `json:"tax_rate"`
	ValidUntil *time.Time        `json:"valid_until"`
	Notes      *string           `json:"notes"`
	LineItems  []LineItemRequest `json:"line_items" binding:"required,min=1,dive"`
}

// StatusRequest carries a status name for any document
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ConvertEstimateRequest books an accepted estimate as a job
type ConvertEstimateRequest struct {
	ScheduledStart *time.Time `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
}

// JobRequest creates or replaces a job
type JobRequest struct {
	ClientID       uuid.UUID         `json:"client_id" binding:"required"`
	PropertyID     *uuid.UUID        `json:"property_id"`
	Title          string            `json:"title" binding:"required,max=255"`
	Instructions   *string           `json:"instructions"`
	ScheduledStart *time.Time        `json:"scheduled_start"`
	ScheduledEnd   *time.Time        `json:"scheduled_end"`
	AssignedUserID *uuid.UUID        `json:"assigned_user_id"`
	LineItems      []LineItemRequest `json:"line_items" binding:"omitempty,dive"`
}

// VisitRequest schedules a visit on a job
type VisitRequest struct {
	ScheduledAt     time.Time  `json:"scheduled_at" binding:"required"`
	DurationMinutes int        `json:"duration_minutes" binding:"omitempty,min=0,max=1440"`
	AssignedUserID  *uuid.UUID `json:"assigned_user_id"`
	Notes           *string    `json:"notes"`
}

// CompleteVisitRequest marks a visit done
type CompleteVisitRequest struct {
	Notes *string `json:"notes"`
}

// FilterRequest holds the list filters shared by documents
type FilterRequest struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	ClientID string `form:"client_id"`
	From     string `form:"from"`
	To       string `form:"to"`
	Method   string `form:"method"`
}
