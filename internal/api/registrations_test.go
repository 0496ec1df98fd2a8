package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skatefest/client/internal/models"
)

func testSubmission(team bool) *models.RegistrationSubmission {
	sub := &models.RegistrationSubmission{
		EventID:       "ev-1",
		CoachName:     "R. Nair",
		ClubName:      "Rollers Club",
		Gender:        "female",
		AgeGroup:      "U-14",
		FirstName:     "Asha",
		LastName:      "Menon",
		DOB:           "2012-03-04",
		District:      "Ernakulam",
		Category:      "inline",
		AadhaarNumber: "123456789012",
		DocumentName:  "aadhaar.jpg",
		Document:      []byte("image-bytes"),
	}
	if team {
		sub.IsTeamEvent = true
		sub.TeamName = "Thunder"
		sub.TeamMembers = []string{"Meera", "Joe"}
	}
	return sub
}

func TestMyRegistrationsSendsBearer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/registrations/my", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"registration_id": "r-1", "event_name": "Speed Sprint", "status": "confirmed"}]`))
	})
	client, _ := newTestClient(t, mux)

	regs, err := client.MyRegistrations(context.Background())
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "Speed Sprint", regs[0].EventName)
	assert.Equal(t, "confirmed", regs[0].Status)
}

func TestSubmitRegistrationTeamParts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/registrations", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "Thunder", r.FormValue(FieldTeamName))
		assert.JSONEq(t, `["Meera","Joe"]`, r.FormValue(FieldTeamMembers))

		file, header, err := r.FormFile(FieldAadhaarImage)
		require.NoError(t, err)
		file.Close()
		assert.Equal(t, "aadhaar.jpg", header.Filename)

		w.WriteHeader(http.StatusCreated)
	})
	client, _ := newTestClient(t, mux)

	require.NoError(t, client.SubmitRegistration(context.Background(), testSubmission(true)))
}

func TestSubmitRegistrationSoloOmitsTeamParts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/registrations", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.NotContains(t, r.MultipartForm.Value, FieldTeamName)
		assert.NotContains(t, r.MultipartForm.Value, FieldTeamMembers)
		assert.Equal(t, "ev-1", r.FormValue(FieldEventID))
		w.WriteHeader(http.StatusCreated)
	})
	client, _ := newTestClient(t, mux)

	require.NoError(t, client.SubmitRegistration(context.Background(), testSubmission(false)))
}

func TestSubmitRegistrationStructuredErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/registrations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]string{{"msg": "dob is invalid"}, {"msg": "district is required"}},
		})
	})
	client, _ := newTestClient(t, mux)

	err := client.SubmitRegistration(context.Background(), testSubmission(false))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"dob is invalid", "district is required"}, ve.Messages)
	assert.Equal(t, "dob is invalid, district is required", ve.Error())
}

func TestSubmitRegistrationServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/registrations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "db down"})
	})
	client, _ := newTestClient(t, mux)

	err := client.SubmitRegistration(context.Background(), testSubmission(false))
	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "db down", se.Message)
}
