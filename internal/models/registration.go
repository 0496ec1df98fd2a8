package models

import "time"

// MyRegistration is one row of the user's existing registrations as returned
// by GET /registrations/my.
type MyRegistration struct {
	RegistrationID string    `json:"registration_id"`
	EventName      string    `json:"event_name"`
	Status         string    `json:"status"`
	StartDate      time.Time `json:"start_date"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
}

// RegistrationSubmission is a validated draft serialized for POST
// /registrations. The gateway turns it into a multipart body; values arrive
// here already trimmed where the wire contract requires it.
type RegistrationSubmission struct {
	EventID string

	CoachName     string
	ClubName      string
	Gender        string
	AgeGroup      string
	FirstName     string
	MiddleName    string
	LastName      string
	DOB           string
	District      string
	Category      string
	AadhaarNumber string

	DocumentName string
	Document     []byte

	// Team fields are sent only when IsTeamEvent is set.
	IsTeamEvent bool
	TeamName    string
	TeamMembers []string
}
