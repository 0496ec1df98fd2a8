package registration

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/skatefest/client/internal/models"
)

// Field names a scalar draft field for SetField.
type Field string

const (
	FieldCoachName     Field = "coach_name"
	FieldClubName      Field = "club_name"
	FieldGender        Field = "gender"
	FieldAgeGroup      Field = "age_group"
	FieldFirstName     Field = "first_name"
	FieldMiddleName    Field = "middle_name"
	FieldLastName      Field = "last_name"
	FieldDOB           Field = "dob"
	FieldDistrict      Field = "district"
	FieldCategory      Field = "category"
	FieldAadhaarNumber Field = "aadhaar_number"
	FieldTeamName      Field = "team_name"
)

var aadhaarPattern = regexp.MustCompile(`^[0-9]{12}$`)

// Allowed extensions for the identity document image, by lowercased
// extension including the dot.
var allowedDocumentExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// Draft is the mutable form data for one open modal session. TeamMembers is
// sized once at reset time from the event's team size and is never resized
// while editing.
type Draft struct {
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

	TeamName    string
	TeamMembers []string

	DocumentName string
	Document     []byte
}

func newDraft(event *models.Event) *Draft {
	d := &Draft{}
	if event.IsTeamEvent {
		d.TeamMembers = make([]string, max(0, event.MaxTeamSize-1))
	}
	return d
}

func (d *Draft) set(field Field, value string) error {
	switch field {
	case FieldCoachName:
		d.CoachName = value
	case FieldClubName:
		d.ClubName = value
	case FieldGender:
		d.Gender = value
	case FieldAgeGroup:
		d.AgeGroup = value
	case FieldFirstName:
		d.FirstName = value
	case FieldMiddleName:
		d.MiddleName = value
	case FieldLastName:
		d.LastName = value
	case FieldDOB:
		d.DOB = value
	case FieldDistrict:
		d.District = value
	case FieldCategory:
		d.Category = value
	case FieldAadhaarNumber:
		d.AadhaarNumber = value
	case FieldTeamName:
		d.TeamName = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// validate applies the submit-time rules in order and returns the message of
// the first failing rule, or "" when the draft is submittable. Errors are
// never aggregated.
func (d *Draft) validate(teamEvent bool) string {
	if strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "" {
		return "First name and last name are required."
	}
	if d.Gender == "" {
		return "Please select a gender."
	}
	if strings.TrimSpace(d.AgeGroup) == "" {
		return "Age group is required."
	}
	if d.DOB == "" {
		return "Date of birth is required."
	}
	if strings.TrimSpace(d.District) == "" {
		return "District is required."
	}
	if d.Category == "" {
		return "Please select a category."
	}
	if !aadhaarPattern.MatchString(d.AadhaarNumber) {
		return "Aadhaar number must be exactly 12 digits."
	}
	if len(d.Document) == 0 {
		return "Aadhaar card image is required."
	}
	if teamEvent {
		if strings.TrimSpace(d.TeamName) == "" {
			return "Team name is required."
		}
		for _, m := range d.TeamMembers {
			if strings.TrimSpace(m) == "" {
				return "Every team member name is required."
			}
		}
	}
	return ""
}

// submission serializes the draft for the wire. Team member names are
// trimmed; scalar fields travel as entered.
func (d *Draft) submission(event *models.Event) *models.RegistrationSubmission {
	sub := &models.RegistrationSubmission{
		EventID:       event.ID,
		CoachName:     d.CoachName,
		ClubName:      d.ClubName,
		Gender:        d.Gender,
		AgeGroup:      d.AgeGroup,
		FirstName:     d.FirstName,
		MiddleName:    d.MiddleName,
		LastName:      d.LastName,
		DOB:           d.DOB,
		District:      d.District,
		Category:      d.Category,
		AadhaarNumber: d.AadhaarNumber,
		DocumentName:  d.DocumentName,
		Document:      d.Document,
		IsTeamEvent:   event.IsTeamEvent,
	}
	if event.IsTeamEvent {
		sub.TeamName = d.TeamName
		sub.TeamMembers = make([]string, len(d.TeamMembers))
		for i, m := range d.TeamMembers {
			sub.TeamMembers[i] = strings.TrimSpace(m)
		}
	}
	return sub
}
