package models

import "time"

// Event is a registerable event as served by the backend. Read-only on the
// client; the engine only consumes it.
type Event struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ImageURL       string    `json:"image_url"`
	Venue          string    `json:"venue"`
	Location       string    `json:"location"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	IsTeamEvent    bool      `json:"is_team_event"`
	MaxTeamSize    int       `json:"max_team_size"`
	PricePerPerson float64   `json:"price_per_person"`
	PricePerTeam   float64   `json:"price_per_team"`
}

// Price returns the amount shown on the submit action: the team price for
// team events, otherwise the per-person price. Display only, never charged
// client-side.
func (e *Event) Price() float64 {
	if e.IsTeamEvent {
		return e.PricePerTeam
	}
	return e.PricePerPerson
}

// PastEvent is an entry of the previous-events timeline.
type PastEvent struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
}
