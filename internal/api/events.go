package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/skatefest/client/internal/models"
)

// ListEvents fetches all current events.
func (c *Client) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.get(ctx, c.base+"/events", false, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent fetches a single event by id.
func (c *Client) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("event id is required")
	}
	var event models.Event
	if err := c.get(ctx, c.base+"/events/"+url.PathEscape(id), false, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ListPreviousEvents fetches the previous-events timeline.
func (c *Client) ListPreviousEvents(ctx context.Context) ([]models.PastEvent, error) {
	var events []models.PastEvent
	if err := c.get(ctx, c.base+"/previous", false, &events); err != nil {
		return nil, err
	}
	return events, nil
}
