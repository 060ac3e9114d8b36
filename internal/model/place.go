// Package model holds the domain types shared by the repository,
// service and handler layers.
package model

import "time"

// Visited flags whether a place on the bucket list has been travelled to.
const (
	VisitedYes = "YES"
	VisitedNo  = "NO"
)

// TravelPlace is a travel destination record, the only entity in the system.
//
// ID is assigned by the backend when the place is created and identifies the
// record for its whole lifetime.
type TravelPlace struct {
	ID          int       `json:"id" db:"id"`
	Destination string    `json:"destination" db:"destination"`
	Country     string    `json:"country" db:"country"`
	Notes       string    `json:"notes" db:"notes"`
	Visited     string    `json:"visited" db:"visited"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
