package client

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
)

func (c *Client) AssignHousing(ctx context.Context, ritualID uint, campIDs, pilgrimIDs []uint) (BulkResult, error) {
	body := map[string]any{"pilgrim_ids": pilgrimIDs, "ritual_id": ritualID, "camp_ids": campIDs}
	return c.bulk(ctx, "AssignHousing", "/pilgrims/bulk/housing/auto-assign", body, validation.Errors{
		"pilgrim_ids": validation.Validate(pilgrimIDs, validation.Required),
		"ritual_id":   validation.Validate(ritualID, validation.Required),
		"camp_ids":    validation.Validate(campIDs, validation.Required),
	})
}

func (c *Client) AssignTransport(ctx context.Context, gatheringPointTypeID uint, busIDs, pilgrimIDs []uint) (BulkResult, error) {
	body := map[string]any{"pilgrim_ids": pilgrimIDs, "gathering_point_type_id": gatheringPointTypeID, "bus_ids": busIDs}
	return c.bulk(ctx, "AssignTransport", "/pilgrims/bulk/transport/manual-distribute", body, validation.Errors{
		"pilgrim_ids":             validation.Validate(pilgrimIDs, validation.Required),
		"gathering_point_type_id": validation.Validate(gatheringPointTypeID, validation.Required),
		"bus_ids":                 validation.Validate(busIDs, validation.Required),
	})
}

func (c *Client) AssignSupervisors(ctx context.Context, supervisorIDs, pilgrimIDs []uint) (BulkResult, error) {
	body := map[string]any{"pilgrim_ids": pilgrimIDs, "supervisor_ids": supervisorIDs}
	return c.bulk(ctx, "AssignSupervisors", "/pilgrims/bulk/supervisors", body, validation.Errors{
		"pilgrim_ids":    validation.Validate(pilgrimIDs, validation.Required),
		"supervisor_ids": validation.Validate(supervisorIDs, validation.Required),
	})
}

func (c *Client) AssignTags(ctx context.Context, tagIDs, pilgrimIDs []uint) (BulkResult, error) {
	body := map[string]any{"pilgrim_ids": pilgrimIDs, "tag_ids": tagIDs}
	return c.bulk(ctx, "AssignTags", "/pilgrims/bulk/tags", body, validation.Errors{
		"pilgrim_ids": validation.Validate(pilgrimIDs, validation.Required),
		"tag_ids":     validation.Validate(tagIDs, validation.Required),
	})
}

// SetDepartureStatus marks the pilgrims as late arrivals when late is true
// and early arrivals otherwise.
func (c *Client) SetDepartureStatus(ctx context.Context, late bool, pilgrimIDs []uint) (BulkResult, error) {
	body := map[string]any{"pilgrim_ids": pilgrimIDs, "departure_status": late}
	return c.bulk(ctx, "SetDepartureStatus", "/pilgrims/bulk/departure-status", body, validation.Errors{
		"pilgrim_ids": validation.Validate(pilgrimIDs, validation.Required),
	})
}

func (c *Client) bulk(ctx context.Context, op, path string, body map[string]any, checks validation.Errors) (BulkResult, error) {
	if err := checks.Filter(); err != nil {
		return BulkResult{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var out BulkResult
	resp, err := c.request(ctx).SetBody(body).SetResult(&out).Post(path)
	if err := c.check(op, resp, err); err != nil {
		return BulkResult{}, err
	}

	return out, nil
}
