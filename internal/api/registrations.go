package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/skatefest/client/internal/models"
)

// Multipart field names are a fixed wire contract with the backend.
const (
	FieldCoachName     = "coach_name"
	FieldClubName      = "club_name"
	FieldGender        = "gender"
	FieldAgeGroup      = "age_group"
	FieldFirstName     = "first_name"
	FieldMiddleName    = "middle_name"
	FieldLastName      = "last_name"
	FieldDOB           = "dob"
	FieldDistrict      = "district"
	FieldCategory      = "category"
	FieldAadhaarNumber = "aadhaar_number"
	FieldAadhaarImage  = "aadhaar_image"
	FieldEventID       = "event_id"
	FieldTeamName      = "team_name"
	FieldTeamMembers   = "team_members"
)

// validationBody is the backend's structured rejection of a submission.
type validationBody struct {
	Errors []struct {
		Msg string `json:"msg"`
	} `json:"errors"`
}

// MyRegistrations lists the current user's registrations. Requires a session.
func (c *Client) MyRegistrations(ctx context.Context) ([]models.MyRegistration, error) {
	var regs []models.MyRegistration
	if err := c.get(ctx, c.base+"/registrations/my", true, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// SubmitRegistration posts one registration as multipart/form-data. A 4xx
// with a structured error list comes back as *ValidationError; any other
// failure as *StatusError or a transport error. Exactly one request is sent.
func (c *Client) SubmitRegistration(ctx context.Context, sub *models.RegistrationSubmission) error {
	body, contentType, err := encodeSubmission(sub)
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, c.base+"/registrations", body)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.tokens.Token())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit registration: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("method", http.MethodPost),
		zap.String("path", "/registrations"),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var vb validationBody
	if err := json.Unmarshal(raw, &vb); err == nil && len(vb.Errors) > 0 {
		msgs := make([]string, 0, len(vb.Errors))
		for _, e := range vb.Errors {
			msgs = append(msgs, e.Msg)
		}
		return &ValidationError{Messages: msgs}
	}
	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	return &StatusError{StatusCode: resp.StatusCode, Message: eb.Error}
}

func encodeSubmission(sub *models.RegistrationSubmission) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{FieldCoachName, sub.CoachName},
		{FieldClubName, sub.ClubName},
		{FieldGender, sub.Gender},
		{FieldAgeGroup, sub.AgeGroup},
		{FieldFirstName, sub.FirstName},
		{FieldMiddleName, sub.MiddleName},
		{FieldLastName, sub.LastName},
		{FieldDOB, sub.DOB},
		{FieldDistrict, sub.District},
		{FieldCategory, sub.Category},
		{FieldAadhaarNumber, sub.AadhaarNumber},
		{FieldEventID, sub.EventID},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}

	part, err := w.CreateFormFile(FieldAadhaarImage, sub.DocumentName)
	if err != nil {
		return nil, "", fmt.Errorf("write field %s: %w", FieldAadhaarImage, err)
	}
	if _, err := part.Write(sub.Document); err != nil {
		return nil, "", fmt.Errorf("write field %s: %w", FieldAadhaarImage, err)
	}

	if sub.IsTeamEvent {
		if err := w.WriteField(FieldTeamName, sub.TeamName); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", FieldTeamName, err)
		}
		members, err := json.Marshal(sub.TeamMembers)
		if err != nil {
			return nil, "", err
		}
		if err := w.WriteField(FieldTeamMembers, string(members)); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", FieldTeamMembers, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
