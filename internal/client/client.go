// Package client is the Go counterpart of the original admin panel pages:
// an API client plus the session, list and form controllers the CLI drives.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"

	"github.com/frahmantamala/employee-admin/internal/auth"
	"github.com/frahmantamala/employee-admin/internal/employee"
)

// API is the surface the controllers depend on.
type API interface {
	ListEmployees() ([]*employee.Employee, error)
	GetEmployee(id int64) (*employee.Employee, error)
	CreateEmployee(dto employee.CreateEmployeeDTO, image *employee.ImageUpload) (*employee.Employee, error)
	UpdateEmployee(id int64, dto employee.UpdateEmployeeDTO) (*employee.Employee, error)
	DeleteEmployee(id int64) error
}

// APIError is a server error decoded back into client shape.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// IsUnauthorized reports whether the error is a 401 from the server. The
// session token is deliberately NOT cleared on this: only explicit logout
// clears it.
func IsUnauthorized(err error) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// ErrNotLoggedIn is returned before any network call when no token is held.
var ErrNotLoggedIn = &APIError{StatusCode: http.StatusUnauthorized, Code: "NOT_LOGGED_IN", Message: "not logged in"}

// Client talks to the employee-admin API. One request per user action, no
// retries; a failure surfaces immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	logger     *slog.Logger
}

func New(baseURL string, session *Session, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		session:    session,
		logger:     logger,
	}
}

// SetHTTPClient swaps the underlying http.Client (tests, custom timeouts).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// Register creates an account and persists the returned token.
func (c *Client) Register(username, password string) error {
	return c.authenticate("/api/v1/auth/register", username, password)
}

// Login authenticates and persists the returned token.
func (c *Client) Login(username, password string) error {
	return c.authenticate("/api/v1/auth/login", username, password)
}

func (c *Client) authenticate(path, username, password string) error {
	body, err := json.Marshal(auth.LoginDTO{Username: username, Password: password})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var tokens auth.TokenResponse
	if err := c.do(req, &tokens); err != nil {
		return err
	}

	return c.session.SetToken(tokens.Token)
}

// Logout tells the server goodbye and clears the persisted token either way.
func (c *Client) Logout() error {
	if c.session.IsAuthenticated() {
		req, err := c.newAuthedRequest(http.MethodPost, "/api/v1/auth/logout", nil, "")
		if err == nil {
			// best-effort; an expired token still logs out locally
			_ = c.do(req, nil)
		}
	}
	return c.session.Clear()
}

func (c *Client) ListEmployees() ([]*employee.Employee, error) {
	req, err := c.newAuthedRequest(http.MethodGet, "/api/v1/employees", nil, "")
	if err != nil {
		return nil, err
	}

	var employees []*employee.Employee
	if err := c.do(req, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (c *Client) GetEmployee(id int64) (*employee.Employee, error) {
	req, err := c.newAuthedRequest(http.MethodGet, fmt.Sprintf("/api/v1/employees/%d", id), nil, "")
	if err != nil {
		return nil, err
	}

	var emp employee.Employee
	if err := c.do(req, &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

// CreateEmployee submits the draft as multipart form data, course as a
// JSON-serialized list, image as a typed file part when present.
func (c *Client) CreateEmployee(dto employee.CreateEmployeeDTO, image *employee.ImageUpload) (*employee.Employee, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":        dto.Name,
		"email":       dto.Email,
		"mobile":      dto.Mobile,
		"designation": dto.Designation,
		"gender":      dto.Gender,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, err
		}
	}

	courseJSON, err := json.Marshal(dto.Course)
	if err != nil {
		return nil, err
	}
	if err := mw.WriteField("course", string(courseJSON)); err != nil {
		return nil, err
	}

	if image != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(image.Filename)))
		header.Set("Content-Type", image.ContentType)

		part, err := mw.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newAuthedRequest(http.MethodPost, "/api/v1/employees", &buf, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var emp employee.Employee
	if err := c.do(req, &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

func (c *Client) UpdateEmployee(id int64, dto employee.UpdateEmployeeDTO) (*employee.Employee, error) {
	body, err := json.Marshal(dto)
	if err != nil {
		return nil, err
	}

	req, err := c.newAuthedRequest(http.MethodPut, fmt.Sprintf("/api/v1/employees/%d", id), bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}

	var emp employee.Employee
	if err := c.do(req, &emp); err != nil {
		return nil, err
	}
	return &emp, nil
}

func (c *Client) DeleteEmployee(id int64) error {
	req, err := c.newAuthedRequest(http.MethodDelete, fmt.Sprintf("/api/v1/employees/%d", id), nil, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) newAuthedRequest(method, path string, body io.Reader, contentType string) (*http.Request, error) {
	if !c.session.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp.StatusCode, body)
		c.logger.Warn("request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"message", apiErr.Message)
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// decodeAPIError understands both server error envelopes: the AppError shape
// {"error":{...}} and the plain {"code","message"} shape.
func decodeAPIError(status int, body []byte) *APIError {
	var envelope struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Code    interface{} `json:"code"`
		Message string      `json:"message"`
	}

	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	if envelope.Error != nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	} else if envelope.Message != "" {
		apiErr.Message = envelope.Message
	}
	return apiErr
}
