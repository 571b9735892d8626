package api

import (
	"context"
	"fmt"

	progresstypes "betyaClient/internal/types/progress"
)

func (c *Client) SubtaskState(ctx context.Context, subtaskID int) (bool, error) {
	var resp progresstypes.SubtaskStateResponse
	path := fmt.Sprintf("/wyzwania/progres/podzadania/%d", subtaskID)
	if err := c.get(ctx, "/wyzwania/progres/podzadania/{id}", path, &resp); err != nil {
		return false, err
	}
	return resp.Done, nil
}

func (c *Client) TaskState(ctx context.Context, taskID int) (bool, error) {
	var resp progresstypes.TaskStateResponse
	path := fmt.Sprintf("/wyzwania/progres/dzienne/%d", taskID)
	if err := c.get(ctx, "/wyzwania/progres/dzienne/{id}", path, &resp); err != nil {
		return false, err
	}
	return resp.Done, nil
}

// SetSubtaskState records today's done flag for a subtask. The response must
// be inspected for the admin_readonly status, which is a 200 with the
// authoritative value, not an error.
func (c *Client) SetSubtaskState(ctx context.Context, subtaskID int, done bool) (*progresstypes.UpdateResponse, error) {
	var resp progresstypes.UpdateResponse
	path := fmt.Sprintf("/wyzwania/progres/podzadania/%d?wykonane=%t", subtaskID, done)
	if err := c.post(ctx, "/wyzwania/progres/podzadania/{id}", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SetTaskState(ctx context.Context, taskID int, done bool) (*progresstypes.UpdateResponse, error) {
	var resp progresstypes.UpdateResponse
	path := fmt.Sprintf("/wyzwania/progres/dzienne/%d?wykonane=%t", taskID, done)
	if err := c.post(ctx, "/wyzwania/progres/dzienne/{id}", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TaskHistory fetches the sparse per-participant history for one task.
func (c *Client) TaskHistory(ctx context.Context, taskID int) ([]progresstypes.ParticipantHistory, error) {
	var resp progresstypes.HistoryResponse
	path := fmt.Sprintf("/wyzwania/progres/dzienne/historia/wszystkie/%d", taskID)
	if err := c.get(ctx, "/wyzwania/progres/dzienne/historia/wszystkie/{id}", path, &resp); err != nil {
		return nil, err
	}
	if resp.Status != progresstypes.StatusSuccess {
		return nil, &Error{StatusCode: 200, Message: "history unavailable"}
	}
	return resp.History, nil
}
