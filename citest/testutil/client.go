package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// TestClient provides HTTP client utilities for testing.
type TestClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewTestClient creates a new test HTTP client.
func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response wraps HTTP response with helpers.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON unmarshals response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// IsSuccess returns true if status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs HTTP GET request.
func (c *TestClient) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path)
}

// Delete performs HTTP DELETE request.
func (c *TestClient) Delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path)
}

func (c *TestClient) do(ctx context.Context, method, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: body}, nil
}

// Transport selects how an MCP client reaches the server.
type Transport string

const (
	Streamable Transport = "streamable"
	SSE        Transport = "sse"
)

// MCPClient is a connected go-sdk client session.
type MCPClient struct {
	Session *sdkmcp.ClientSession
}

// ConnectMCP connects a go-sdk client to the server over transport.
func (ts *TestServer) ConnectMCP(ctx context.Context, name string, transport Transport) (*MCPClient, error) {
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: name, Version: "1.0.0"}, nil)

	var t sdkmcp.Transport
	switch transport {
	case SSE:
		t = &sdkmcp.SSEClientTransport{Endpoint: ts.BaseURL + "/sse"}
	default:
		t = &sdkmcp.StreamableClientTransport{Endpoint: ts.BaseURL + "/mcp"}
	}

	session, err := client.Connect(ctx, t, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s over %s: %w", name, transport, err)
	}
	return &MCPClient{Session: session}, nil
}

// Call invokes a workflow tool and returns its text.
func (c *MCPClient) Call(ctx context.Context, tool string, args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}
	result, err := c.Session.CallTool(ctx, &sdkmcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		return "", err
	}
	if result.IsError {
		return "", fmt.Errorf("tool %s reported an error", tool)
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("tool %s returned no content", tool)
	}
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	if !ok {
		return "", fmt.Errorf("tool %s returned %T", tool, result.Content[0])
	}
	return text.Text, nil
}

// Input resumes a workflow with a value.
func (c *MCPClient) Input(ctx context.Context, tool string, v any) (string, error) {
	return c.Call(ctx, tool, map[string]any{"input": v})
}

// Close closes the client session.
func (c *MCPClient) Close() error {
	return c.Session.Close()
}
