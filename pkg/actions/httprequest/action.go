// Package httprequest provides the outbound HTTP call action.
package httprequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/freeflowhq/automation-engine/pkg/models"
	"github.com/freeflowhq/automation-engine/pkg/protocol"
	"github.com/freeflowhq/automation-engine/pkg/template"
)

const (
	defaultTimeoutSeconds = 30
	maxTimeoutSeconds     = 120
)

var (
	// ErrHTTPRequestURLInvalid is returned when the URL is missing or malformed.
	ErrHTTPRequestURLInvalid = errors.New("missing or invalid 'url' in configuration")
	// ErrHTTPMethodInvalid is returned when the HTTP method is not recognized.
	ErrHTTPMethodInvalid = errors.New("invalid HTTP method")
)

var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// Action performs an HTTP request to a configured URL with optional headers
// and body. URL, headers and body support {{field}} templating. The request
// carries its own timeout and reports failure instead of hanging; a non-2xx
// response is a failed outcome, not an error.
type Action struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
	Timeout time.Duration
}

func NewAction(config map[string]any) (*Action, error) {
	url, ok := config["url"].(string)
	if !ok || url == "" {
		return nil, ErrHTTPRequestURLInvalid
	}

	method, _ := config["method"].(string)
	if method == "" {
		method = http.MethodGet
	}

	method = strings.ToUpper(method)
	if !allowedMethods[method] {
		return nil, fmt.Errorf("%w: %s", ErrHTTPMethodInvalid, method)
	}

	body, _ := config["body"].(string)

	headers := make(map[string]string)

	if headersConfig, exists := config["headers"]; exists {
		if headersMap, ok := headersConfig.(map[string]any); ok {
			for k, v := range headersMap {
				if strVal, ok := v.(string); ok {
					headers[k] = strVal
				}
			}
		}
	}

	timeout := time.Duration(defaultTimeoutSeconds) * time.Second
	if seconds, ok := toSeconds(config["timeout_seconds"]); ok && seconds > 0 {
		if seconds > maxTimeoutSeconds {
			seconds = maxTimeoutSeconds
		}

		timeout = time.Duration(seconds) * time.Second
	}

	return &Action{
		Method:  method,
		URL:     url,
		Headers: headers,
		Body:    body,
		Timeout: timeout,
	}, nil
}

func toSeconds(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (*protocol.Outcome, error) {
	logger = logger.With("action_type", "http_request")

	url := template.Render(a.URL, executionCtx)
	body := template.Render(a.Body, executionCtx)

	logger.InfoContext(ctx, "Executing HTTP request", "method", a.Method, "url", url)

	req, err := http.NewRequestWithContext(ctx, a.Method, url, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}

	for key, value := range a.Headers {
		req.Header.Set(key, template.Render(value, executionCtx))
	}

	if a.Body != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: a.Timeout}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	return a.processResponse(ctx, resp, logger)
}

func (a *Action) processResponse(ctx context.Context, resp *http.Response, logger *slog.Logger) (*protocol.Outcome, error) {
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var body any

	err = json.Unmarshal(bodyBytes, &body)
	if err != nil {
		body = string(bodyBytes)
	}

	output := map[string]any{
		"status_code": resp.StatusCode,
		"body":        body,
		"headers":     flattenHeaders(resp.Header),
	}

	logger.InfoContext(ctx, "HTTP request completed",
		"status_code", resp.StatusCode, "body_length", len(bodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &protocol.Outcome{
			Success: false,
			Output:  output,
			Error:   fmt.Sprintf("unexpected status code %d", resp.StatusCode),
		}, nil
	}

	return &protocol.Outcome{Success: true, Output: output}, nil
}

func flattenHeaders(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for key := range h {
		flat[key] = h.Get(key)
	}

	return flat
}
