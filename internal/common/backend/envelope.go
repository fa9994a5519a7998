package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"directory-console/internal/common/errors"
	"directory-console/internal/models"
)

// Result is what a write endpoint reported back.
type Result struct {
	Status  int
	Message string
	Data    json.RawMessage
}

// envelope is the backend's response wrapper:
// {success, data, pagination, message, errors}.
type envelope struct {
	Success    *bool              `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
	Message    string             `json:"message"`
	Errors     fieldErrors        `json:"errors"`

	status int
	raw    []byte
}

func (e *envelope) result() *Result {
	return &Result{Status: e.status, Message: e.Message, Data: e.Data}
}

// fieldErrors accepts both {"name": ["msg"]} and {"name": "msg"}.
type fieldErrors map[string][]string

func (f *fieldErrors) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Some endpoints send a list of strings; keep them under "_".
		var list []string
		if lerr := json.Unmarshal(data, &list); lerr != nil {
			return err
		}
		*f = fieldErrors{"_": list}
		return nil
	}
	out := make(fieldErrors, len(raw))
	for k, v := range raw {
		var many []string
		if err := json.Unmarshal(v, &many); err == nil {
			out[k] = many
			continue
		}
		var one string
		if err := json.Unmarshal(v, &one); err != nil {
			return fmt.Errorf("field %s: %w", k, err)
		}
		out[k] = []string{one}
	}
	*f = out
	return nil
}

type call struct {
	operation   string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	header      http.Header
}

// do sends c and classifies the outcome. Transport failures become
// NETWORK_ERROR; non-2xx answers and "success": false become
// BACKEND_REJECTED carrying the backend's message and field map.
func (c *Client) do(ctx context.Context, in call) (*envelope, error) {
	u := c.baseURL.JoinPath(in.path)
	if len(in.query) > 0 {
		u.RawQuery = in.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, in.method, u.String(), in.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if in.contentType != "" {
		req.Header.Set("Content-Type", in.contentType)
	}
	for k, vs := range in.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, in.operation, req)
	if err != nil {
		c.logger.Warn("Backend unreachable", map[string]interface{}{
			"operation": in.operation,
			"error":     err.Error(),
		})
		return nil, errors.NewNetworkError(in.operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.NewNetworkError(in.operation, fmt.Errorf("failed to read response body: %w", err))
	}

	env := &envelope{status: resp.StatusCode, raw: raw}
	decodeErr := decodeEnvelope(raw, env)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok && decodeErr != nil {
		return nil, errors.NewDecodeError(in.operation, decodeErr)
	}
	if !ok || (env.Success != nil && !*env.Success) {
		c.logger.Info("Backend rejected request", map[string]interface{}{
			"operation": in.operation,
			"status":    resp.StatusCode,
			"message":   env.Message,
		})
		return nil, errors.NewBackendRejectedError(in.operation, resp.StatusCode, env.Message, env.Errors)
	}

	c.logger.Debug("Backend request completed", map[string]interface{}{
		"operation": in.operation,
		"status":    resp.StatusCode,
	})
	return env, nil
}

func decodeEnvelope(raw []byte, env *envelope) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("response is not a JSON object")
	}
	return json.Unmarshal(trimmed, env)
}
