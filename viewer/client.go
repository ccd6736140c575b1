package viewer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"galleria-backend/models"
)

// Client calls the gallery service over HTTP and implements GalleryAPI.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// APIError carries the service's machine-readable error code alongside the
// human message.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewClient constructs a gallery service client. token is the bearer token
// used for the mutating admin endpoints; pass "" for read-only use.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) ListImages(productID uint) ([]models.ProductImageSummary, error) {
	url := fmt.Sprintf("%s/api/images?product_id=%d", c.baseURL, productID)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var images []models.ProductImageSummary
	if err := c.do(req, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (c *Client) SetPrimary(id uint) error {
	url := fmt.Sprintf("%s/api/admin/images/%d/primary", c.baseURL, id)
	req, err := http.NewRequest(http.MethodPut, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) Reorder(id uint, displayOrder int) error {
	body, err := json.Marshal(map[string]int{"displayOrder": displayOrder})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/admin/images/%d/reorder", c.baseURL, id)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: "request failed"}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
