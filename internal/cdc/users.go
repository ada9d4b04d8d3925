package cdc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/edvin/cdcadmin/internal/model"
)

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	return list[model.User](ctx, c, "/api/v1/users", "/api/v1/users")
}

func (c *Client) CreateUser(ctx context.Context, p model.UserPayload) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPost, "/api/v1/users", "/api/v1/users", p, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id model.ID, p model.UserPayload) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPut, userPath(id), "/api/v1/users/{id}", p, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, userPath(id), "/api/v1/users/{id}", nil, nil)
}

func (c *Client) ListRoles(ctx context.Context) ([]model.Role, error) {
	return list[model.Role](ctx, c, "/api/v1/roles", "/api/v1/roles")
}

func userPath(id model.ID) string {
	return fmt.Sprintf("/api/v1/users/%s", url.PathEscape(id.String()))
}
