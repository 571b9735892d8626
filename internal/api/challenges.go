package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"betyaClient/internal/types/challenge"
)

func (c *Client) Challenges(ctx context.Context) ([]challenge.Challenge, error) {
	var resp challenge.ListResponse
	if err := c.get(ctx, "/wyzwania/", "/wyzwania/", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) Challenge(ctx context.Context, id int) (*challenge.Challenge, error) {
	var resp challenge.DetailResponse
	path := fmt.Sprintf("/wyzwania/%d", id)
	if err := c.get(ctx, "/wyzwania/{id}", path, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" || resp.Data == nil {
		message := "challenge not found"
		if resp.Message != nil {
			message = *resp.Message
		}
		return nil, &Error{StatusCode: http.StatusNotFound, Message: message}
	}
	return resp.Data, nil
}

func (c *Client) CreateChallenge(ctx context.Context, req challenge.CreateRequest) (*challenge.Challenge, error) {
	var created challenge.Challenge
	if err := c.post(ctx, "/wyzwania/dodaj", "/wyzwania/dodaj", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteChallenge returns the service's verdict rather than an error for the
// admin-guard path: a non-success status carries an informational message
// for the user, with the challenge left in place.
func (c *Client) DeleteChallenge(ctx context.Context, id int) (*challenge.DeleteResponse, error) {
	var resp challenge.DeleteResponse
	path := fmt.Sprintf("/wyzwania/%d", id)
	if err := c.del(ctx, "/wyzwania/{id}", path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ReceivedChallengeInvitations(ctx context.Context) ([]challenge.ReceivedInvitation, error) {
	var resp challenge.ReceivedInvitationsResponse
	if err := c.get(ctx, "/wyzwania/zaproszenia/odebrane", "/wyzwania/zaproszenia/odebrane", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) SentChallengeInvitations(ctx context.Context) ([]challenge.SentInvitation, error) {
	var resp challenge.SentInvitationsResponse
	if err := c.get(ctx, "/wyzwania/zaproszenia/wyslane", "/wyzwania/zaproszenia/wyslane", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) AcceptChallengeInvitation(ctx context.Context, membershipID int) error {
	return c.resolveChallengeInvitation(ctx, membershipID, "akceptuj")
}

func (c *Client) RejectChallengeInvitation(ctx context.Context, membershipID int) error {
	return c.resolveChallengeInvitation(ctx, membershipID, "odrzuc")
}

func (c *Client) resolveChallengeInvitation(ctx context.Context, membershipID int, action string) error {
	var resp challenge.InvitationActionResponse
	route := "/wyzwania/zaproszenia/{id}/" + action
	path := fmt.Sprintf("/wyzwania/zaproszenia/%d/%s", membershipID, action)
	if err := c.post(ctx, route, path, nil, &resp); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return ErrInvitationHandled
		}
		return err
	}
	return nil
}
