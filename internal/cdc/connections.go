package cdc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/edvin/cdcadmin/internal/model"
)

const testFailedMessage = "Connection test failed"

// ListConnections returns every connection visible to the caller.
func (c *Client) ListConnections(ctx context.Context) ([]model.Connection, error) {
	return list[model.Connection](ctx, c, "/api/v1/connections", "/api/v1/connections")
}

// GetConnection returns a single connection by ID.
func (c *Client) GetConnection(ctx context.Context, id model.ID) (*model.Connection, error) {
	var conn model.Connection
	if err := c.do(ctx, http.MethodGet, connectionPath(id), "/api/v1/connections/{id}", nil, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// CreateConnection stores a new connection.
func (c *Client) CreateConnection(ctx context.Context, p model.ConnectionPayload) (*model.Connection, error) {
	var conn model.Connection
	if err := c.do(ctx, http.MethodPost, "/api/v1/connections", "/api/v1/connections", p, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// UpdateConnection replaces the stored fields of a connection.
func (c *Client) UpdateConnection(ctx context.Context, id model.ID, p model.ConnectionPayload) (*model.Connection, error) {
	var conn model.Connection
	if err := c.do(ctx, http.MethodPut, connectionPath(id), "/api/v1/connections/{id}", p, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// DeleteConnection deletes a connection.
func (c *Client) DeleteConnection(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, connectionPath(id), "/api/v1/connections/{id}", nil, nil)
}

// testResponse holds the outcome fields of a test reply. The message is read
// separately because backends send detail as a string, a list or an object.
type testResponse struct {
	Success *bool           `json:"success"`
	Status  string          `json:"status"`
	Message json.RawMessage `json:"message"`
}

// TestConnection asks the backend to test a stored connection. Non-2xx
// responses are folded into an error TestResult; only transport errors are
// returned as errors.
func (c *Client) TestConnection(ctx context.Context, id model.ID) (model.TestResult, error) {
	return c.test(ctx, connectionPath(id)+"/test", "/api/v1/connections/{id}/test", nil)
}

// TestConnectionPayload tests an unsaved connection.
func (c *Client) TestConnectionPayload(ctx context.Context, p model.ConnectionPayload) (model.TestResult, error) {
	return c.test(ctx, "/api/v1/connections/test", "/api/v1/connections/test", p)
}

func (c *Client) test(ctx context.Context, path, route string, body any) (model.TestResult, error) {
	var raw json.RawMessage
	err := c.do(ctx, http.MethodPost, path, route, body, &raw)
	now := time.Now().UTC()
	if err != nil {
		if apiErr, ok := AsAPIError(err); ok {
			msg := ExtractMessage(apiErr.Body, testFailedMessage)
			return model.TestResult{State: model.TestError, Message: msg, TestedAt: now}, nil
		}
		return model.TestResult{}, err
	}

	var resp testResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return model.TestResult{}, fmt.Errorf("decode response from %s: %w", path, err)
		}
	}

	failed := (resp.Success != nil && !*resp.Success) || strings.EqualFold(resp.Status, model.StatusFailed)
	if failed {
		msg := rawString(resp.Message)
		if msg == "" {
			msg = ExtractMessage(raw, testFailedMessage)
		}
		return model.TestResult{State: model.TestError, Message: msg, TestedAt: now}, nil
	}

	msg := rawString(resp.Message)
	if msg == "" {
		msg = "Connection successful"
	}
	return model.TestResult{State: model.TestSuccess, Message: msg, TestedAt: now}, nil
}

func connectionPath(id model.ID) string {
	return fmt.Sprintf("/api/v1/connections/%s", url.PathEscape(id.String()))
}
