// Package helpdesk is a client for the Customerly support API: REST calls,
// the realtime change feed, and the view-model pieces a support UI builds
// on (live lists, the reply composer and the inbox).
package helpdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const apiPrefix = "/api/v1"

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status=%d type=%s: %s", e.StatusCode, e.Type, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client is the Customerly API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// NewClient creates a client for the server at baseURL (e.g.
// "https://support.example.com") authenticating with a bearer token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ServerVersion returns the version the server reports on /version.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/version", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode}
	}
	var body struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode version: %w", err)
	}
	return body.Version, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}
	return &u, nil
}

// ListTickets returns one page of tickets visible to the caller, newest
// first.
func (c *Client) ListTickets(ctx context.Context, params ListTicketsParams) (*TicketPage, error) {
	q := url.Values{}
	setIfNotEmpty(q, "status", params.Status)
	setIfNotEmpty(q, "priority", params.Priority)
	setIfNotEmpty(q, "assigned_agent_id", params.AssignedAgentID)
	setIfNotEmpty(q, "team_id", params.TeamID)
	setIfNotEmpty(q, "tag", params.Tag)
	setIfNotEmpty(q, "q", params.Search)
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(params.PageSize))
	}

	path := "/tickets"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page TicketPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return &page, nil
}

// GetTicket returns the expanded ticket including its visible thread.
func (c *Client) GetTicket(ctx context.Context, ticketID string) (*Ticket, error) {
	var t Ticket
	if err := c.doJSON(ctx, http.MethodGet, "/tickets/"+url.PathEscape(ticketID)+"?include=messages", nil, &t); err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &t, nil
}

func (c *Client) CreateTicket(ctx context.Context, in CreateTicketInput) (*Ticket, error) {
	var t Ticket
	if err := c.doJSON(ctx, http.MethodPost, "/tickets", in, &t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return &t, nil
}

func (c *Client) ChangeStatus(ctx context.Context, ticketID, status string) (*Ticket, error) {
	var t Ticket
	body := map[string]string{"status": status}
	if err := c.doJSON(ctx, http.MethodPatch, "/tickets/"+url.PathEscape(ticketID)+"/status", body, &t); err != nil {
		return nil, fmt.Errorf("change status: %w", err)
	}
	return &t, nil
}

func (c *Client) ChangePriority(ctx context.Context, ticketID, priority string) (*Ticket, error) {
	var t Ticket
	body := map[string]string{"priority": priority}
	if err := c.doJSON(ctx, http.MethodPatch, "/tickets/"+url.PathEscape(ticketID)+"/priority", body, &t); err != nil {
		return nil, fmt.Errorf("change priority: %w", err)
	}
	return &t, nil
}

func (c *Client) Assign(ctx context.Context, ticketID string, in AssignInput) (*Ticket, error) {
	var t Ticket
	if err := c.doJSON(ctx, http.MethodPost, "/tickets/"+url.PathEscape(ticketID)+"/assign", in, &t); err != nil {
		return nil, fmt.Errorf("assign ticket: %w", err)
	}
	return &t, nil
}

// ListMessages returns the thread oldest first. Customers never see
// internal notes.
func (c *Client) ListMessages(ctx context.Context, ticketID string) ([]Message, error) {
	var msgs []Message
	if err := c.doJSON(ctx, http.MethodGet, "/tickets/"+url.PathEscape(ticketID)+"/messages", nil, &msgs); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (c *Client) SendMessage(ctx context.Context, ticketID string, in SendMessageInput) (*Message, error) {
	var m Message
	if err := c.doJSON(ctx, http.MethodPost, "/tickets/"+url.PathEscape(ticketID)+"/messages", in, &m); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &m, nil
}

// UploadAttachment stores content on the ticket. The returned Path is what
// SendMessageInput.Attachments references.
func (c *Client) UploadAttachment(ctx context.Context, ticketID, fileName string, content io.Reader) (*Attachment, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read %s: %w", fileName, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	var a Attachment
	if err := c.do(ctx, http.MethodPost, "/tickets/"+url.PathEscape(ticketID)+"/attachments", &buf, mw.FormDataContentType(), &a); err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}
	return &a, nil
}

func (c *Client) DeleteAttachment(ctx context.Context, attachmentID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/attachments/"+url.PathEscape(attachmentID), nil, nil); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}

// AttachmentURL issues a signed link. Preview links render inline and live
// longer than download links.
func (c *Client) AttachmentURL(ctx context.Context, attachmentID string, preview bool) (*SignedURL, error) {
	var s SignedURL
	path := "/attachments/" + url.PathEscape(attachmentID) + "/url?preview=" + strconv.FormatBool(preview)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &s); err != nil {
		return nil, fmt.Errorf("get attachment url: %w", err)
	}
	return &s, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, reqBody, "application/json", result)
}

// do performs an HTTP request and unwraps the response envelope into result.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Type = env.Error.Type
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if result == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func setIfNotEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
