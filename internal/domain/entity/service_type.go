package entity

import "time"

// ServiceType is a platform-wide lookup of services offered ("deep-clean",
// "move-out"). Website forms send free-text labels that are matched by slug.
type ServiceType struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the ServiceType model
func (ServiceType) TableName() string {
	return "service_types"
}

// DefaultServiceTypes is the seed list
func DefaultServiceTypes() []ServiceType {
	return []ServiceType{
		{Name: "Standard Clean", Slug: "standard-clean", Active: true},
		{Name: "Deep Clean", Slug: "deep-clean", Active: true},
		{Name: "Move In / Move Out", Slug: "move-in-move-out", Active: true},
		{Name: "Post Construction", Slug: "post-construction", Active: true},
		{Name: "Office Cleaning", Slug: "office-cleaning", Active: true},
		{Name: "Window Cleaning", Slug: "window-cleaning", Active: true},
		{Name: "Carpet Cleaning", Slug: "carpet-cleaning", Active: true},
	}
}
