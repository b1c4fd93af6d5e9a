package entity

import "strings"

// ContactEmail is one labelled email address ("billing", "personal")
type ContactEmail struct {
	Label   string `json:"label,omitempty"`
	Address string `json:"address"`
}

// ContactPhone is one labelled phone number
type ContactPhone struct {
	Label  string `json:"label,omitempty"`
	Number string `json:"number"`
}

// Address is a postal address
type Address struct {
	Line1      string `gorm:"size:255" json:"line1,omitempty"`
	Line2      string `gorm:"size:255" json:"line2,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	Region     string `gorm:"size:100" json:"region,omitempty"`
	PostalCode string `gorm:"size:20" json:"postal_code,omitempty"`
	Country    string `gorm:"size:2" json:"country,omitempty"`
}

// String renders the address on one line, skipping blank parts
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.Region, a.PostalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// IsZero reports whether no part of the address is set
func (a Address) IsZero() bool {
	return a == Address{}
}

// PropertyDetails describes the home or site being cleaned
type PropertyDetails struct {
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *float64 `json:"bathrooms,omitempty"`
	SquareFeet   *int     `json:"square_feet,omitempty"`
	HasPets      *bool    `json:"has_pets,omitempty"`
	PetNotes     string   `json:"pet_notes,omitempty"`
	AccessNotes  string   `json:"access_notes,omitempty"`
	ParkingNotes string   `json:"parking_notes,omitempty"`
}
