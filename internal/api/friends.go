package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"betyaClient/internal/types/friendship"
	"betyaClient/internal/types/user"
)

func (c *Client) Friends(ctx context.Context) ([]friendship.Friend, error) {
	var friends []friendship.Friend
	if err := c.get(ctx, "/znajomi/wszyscy", "/znajomi/wszyscy", &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

func (c *Client) PendingSent(ctx context.Context) ([]friendship.PendingRequest, error) {
	var pending []friendship.PendingRequest
	if err := c.get(ctx, "/znajomi/pending/wyslane", "/znajomi/pending/wyslane", &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func (c *Client) PendingReceived(ctx context.Context) ([]friendship.PendingRequest, error) {
	var pending []friendship.PendingRequest
	if err := c.get(ctx, "/znajomi/pending/odebrane", "/znajomi/pending/odebrane", &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func (c *Client) FriendStats(ctx context.Context) (*friendship.Stats, error) {
	var stats friendship.Stats
	if err := c.get(ctx, "/znajomi/statystyki", "/znajomi/statystyki", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]user.User, error) {
	var found []user.User
	path := "/znajomi/szukaj?q=" + url.QueryEscape(query)
	if err := c.get(ctx, "/znajomi/szukaj", path, &found); err != nil {
		return nil, err
	}
	return found, nil
}

func (c *Client) AddFriend(ctx context.Context, friendID int) (*friendship.Invitation, error) {
	var invitation friendship.Invitation
	req := friendship.AddFriendRequest{FriendID: friendID}
	if err := c.post(ctx, "/znajomi/dodaj_znajomego", "/znajomi/dodaj_znajomego", req, &invitation); err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (c *Client) AcceptFriendRequest(ctx context.Context, relationID int) (*friendship.Invitation, error) {
	return c.resolveFriendRequest(ctx, relationID, "akceptuj")
}

func (c *Client) RejectFriendRequest(ctx context.Context, relationID int) (*friendship.Invitation, error) {
	return c.resolveFriendRequest(ctx, relationID, "odrzuc")
}

func (c *Client) resolveFriendRequest(ctx context.Context, relationID int, action string) (*friendship.Invitation, error) {
	var invitation friendship.Invitation
	route := "/znajomi/{id}/" + action
	path := fmt.Sprintf("/znajomi/%d/%s", relationID, action)
	if err := c.post(ctx, route, path, nil, &invitation); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrInvitationHandled
		}
		return nil, err
	}
	return &invitation, nil
}
