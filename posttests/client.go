package posttests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blogware/posts-contract-tests/apidef"
	"github.com/blogware/posts-contract-tests/framework"
)

// APIClient is a typed client for the posts service API. Every method returns
// the HTTP status code so tests can assert on it directly; response bodies
// are fully read and closed before returning.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     framework.Logger
}

func NewAPIClient(baseURL string, logger framework.Logger) *APIClient {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &APIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		logger:     logger,
	}
}

func (c *APIClient) BaseURL() string { return c.baseURL }

// WaitForStatus polls the status resource until the service responds or the
// timeout elapses, and returns the service's reported status.
func (c *APIClient) WaitForStatus(timeout time.Duration) (apidef.ServiceStatus, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		body, status, err := c.do("GET", "/", nil)
		if err == nil && status == http.StatusOK {
			var ret apidef.ServiceStatus
			if err := json.Unmarshal(body, &ret); err != nil {
				return apidef.ServiceStatus{}, fmt.Errorf("malformed status response: %s", string(body))
			}
			return ret, nil
		}
		if err == nil {
			lastErr = fmt.Errorf("status query returned HTTP %d", status)
		} else {
			lastErr = err
		}
		if !time.Now().Before(deadline) {
			return apidef.ServiceStatus{}, fmt.Errorf("service did not become ready: %w", lastErr)
		}
		time.Sleep(time.Millisecond * 100)
	}
}

func (c *APIClient) ListPosts() ([]apidef.Post, int, error) {
	body, status, err := c.do("GET", "/posts", nil)
	if err != nil || status != http.StatusOK {
		return nil, status, err
	}
	var ret []apidef.Post
	if err := json.Unmarshal(body, &ret); err != nil {
		return nil, status, fmt.Errorf("malformed post list: %w", err)
	}
	return ret, status, nil
}

// ListPostsRaw returns each post as a map of raw JSON properties, so tests
// can assert on the exact key set of the wire format.
func (c *APIClient) ListPostsRaw() ([]map[string]json.RawMessage, int, error) {
	body, status, err := c.do("GET", "/posts", nil)
	if err != nil || status != http.StatusOK {
		return nil, status, err
	}
	var ret []map[string]json.RawMessage
	if err := json.Unmarshal(body, &ret); err != nil {
		return nil, status, fmt.Errorf("malformed post list: %w", err)
	}
	return ret, status, nil
}

func (c *APIClient) CreatePost(params apidef.NewPostParams) (apidef.Post, int, error) {
	body, status, err := c.do("POST", "/posts", jsonBody(params))
	if err != nil || status != http.StatusCreated {
		return apidef.Post{}, status, err
	}
	var ret apidef.Post
	if err := json.Unmarshal(body, &ret); err != nil {
		return apidef.Post{}, status, fmt.Errorf("malformed created post: %w", err)
	}
	return ret, status, nil
}

// CreatePostRaw sends an arbitrary request body, for exercising validation.
func (c *APIClient) CreatePostRaw(body []byte) (int, error) {
	_, status, err := c.do("POST", "/posts", bytes.NewReader(body))
	return status, err
}

func (c *APIClient) UpdatePost(id string, params apidef.UpdatePostParams) (int, error) {
	_, status, err := c.do("PUT", "/posts/"+id, jsonBody(params))
	return status, err
}

func (c *APIClient) DeletePost(id string) (int, error) {
	_, status, err := c.do("DELETE", "/posts/"+id, nil)
	return status, err
}

// RequestShutdown tells the service to exit.
func (c *APIClient) RequestShutdown() error {
	_, status, err := c.do("DELETE", "/", nil)
	if err != nil {
		// the service may quit before sending a response; that's not a failure
		return nil
	}
	if status >= 300 {
		return fmt.Errorf("service returned HTTP %d for shutdown request", status)
	}
	return nil
}

func (c *APIClient) do(method, path string, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	c.logger.Printf("%s %s -> %d %s", method, path, resp.StatusCode, string(respBody))
	return respBody, resp.StatusCode, nil
}

func jsonBody(value interface{}) io.Reader {
	data, _ := json.Marshal(value)
	return bytes.NewReader(data)
}
