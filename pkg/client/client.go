// Package client is an HTTP client for the Fein API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/feinledger/fein/pkg/domain"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is used when FEIN_API_URL is not set.
const DefaultBaseURL = "http://localhost:3000"

// Session is the state of a logged-in user. It is passed to every call
// that needs a token.
type Session struct {
	Email string
	Token string
	Admin bool
}

// APIError is a problem response returned by the API.
type APIError struct {
	Status int
	Title  string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Title)
}

var statusErrors = map[int]error{
	http.StatusBadRequest:          domain.ErrValidation,
	http.StatusUnauthorized:        domain.ErrUnauthenticated,
	http.StatusForbidden:           domain.ErrAccessDenied,
	http.StatusNotFound:            domain.ErrNotFound,
	http.StatusConflict:            domain.ErrAlreadyAssigned,
	http.StatusUnprocessableEntity: domain.ErrNoAccountAvailable,
}

// Unwrap lets callers match API errors with errors.Is on domain errors.
func (e *APIError) Unwrap() error {
	return statusErrors[e.Status]
}

// Client manages all endpoints of the Fein API.
type Client struct {
	HTTPClient *http.Client
	BaseURL    *url.URL
}

// New creates a Client. A nil httpClient gets a default with a timeout.
func New(httpClient *http.Client, baseURL string) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	return &Client{HTTPClient: httpClient, BaseURL: u}, nil
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (c *Client) send(
	ctx context.Context,
	s *Session,
	method, path string,
	query url.Values,
	in any,
) (*http.Response, error) {
	u := c.BaseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s != nil && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close() //nolint: errcheck
		apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
		var p problem
		if json.NewDecoder(resp.Body).Decode(&p) == nil {
			if p.Title != "" {
				apiErr.Title = p.Title
			}
			apiErr.Detail = p.Detail
		}
		return nil, apiErr
	}
	return resp, nil
}

// do sends a request and decodes the data field of the success envelope into out.
func (c *Client) do(
	ctx context.Context,
	s *Session,
	method, path string,
	query url.Values,
	in, out any,
) error {
	resp, err := c.send(ctx, s, method, path, query, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint: errcheck
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a user and returns a session for it.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var out tokenResponse
	in := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, nil, http.MethodPost, "/auth/register", nil, in, &out); err != nil {
		return nil, err
	}
	return c.session(ctx, email, out.AccessToken)
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out tokenResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, nil, http.MethodPost, "/auth/login", nil, in, &out); err != nil {
		return nil, err
	}
	return c.session(ctx, email, out.AccessToken)
}

// session queries the admin listing to learn whether the user is privileged.
func (c *Client) session(ctx context.Context, email, token string) (*Session, error) {
	s := &Session{Email: email, Token: token}
	resp, err := c.send(ctx, s, http.MethodGet, "/admin/accounts", nil, nil)
	switch {
	case err == nil:
		_ = resp.Body.Close()
		s.Admin = true
	case errors.Is(err, domain.ErrAccessDenied):
	default:
		return nil, err
	}
	return s, nil
}

// CreateAccount creates an account owned by the session user.
func (c *Client) CreateAccount(ctx context.Context, s *Session, name string, balance decimal.Decimal) (*dto.AccountRead, error) {
	var out dto.AccountRead
	in := map[string]any{"name": name, "balance": balance}
	if err := c.do(ctx, s, http.MethodPost, "/accounts", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAccounts returns the accounts of the session user.
func (c *Client) ListAccounts(ctx context.Context, s *Session) ([]dto.AccountRead, error) {
	var out []dto.AccountRead
	return out, c.do(ctx, s, http.MethodGet, "/accounts", nil, nil, &out)
}

// ListAllAccounts returns every account. Admin only.
func (c *Client) ListAllAccounts(ctx context.Context, s *Session) ([]dto.AccountRead, error) {
	var out []dto.AccountRead
	return out, c.do(ctx, s, http.MethodGet, "/admin/accounts", nil, nil, &out)
}

// Breakdown books part of a transaction against an account.
type Breakdown struct {
	AccountID    uuid.UUID       `json:"account_id"`
	EarnedAmount decimal.Decimal `json:"earned_amount"`
	SpentAmount  decimal.Decimal `json:"spent_amount"`
}

// NewTransaction is the payload of CreateTransaction.
type NewTransaction struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Date       *time.Time      `json:"date,omitempty"`
	AccountID  uuid.UUID       `json:"account_id"`
	TagID      *uuid.UUID      `json:"tag_id,omitempty"`
	Breakdowns []Breakdown     `json:"breakdowns,omitempty"`
}

// TransactionChanges carries the fields to update. Nil fields are kept.
type TransactionChanges struct {
	Name   *string          `json:"name,omitempty"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Date   *time.Time       `json:"date,omitempty"`
}

// CreateTransaction books a transaction.
func (c *Client) CreateTransaction(ctx context.Context, s *Session, in NewTransaction) (*dto.TransactionRead, error) {
	var out dto.TransactionRead
	if err := c.do(ctx, s, http.MethodPost, "/transactions", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTransactions returns the transactions visible to the session user.
func (c *Client) ListTransactions(ctx context.Context, s *Session) ([]dto.TransactionRead, error) {
	var out []dto.TransactionRead
	return out, c.do(ctx, s, http.MethodGet, "/transactions", nil, nil, &out)
}

// GetTransaction fetches one transaction.
func (c *Client) GetTransaction(ctx context.Context, s *Session, id uuid.UUID) (*dto.TransactionRead, error) {
	var out dto.TransactionRead
	if err := c.do(ctx, s, http.MethodGet, "/transactions/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTransaction changes the supplied fields of a transaction.
func (c *Client) UpdateTransaction(
	ctx context.Context,
	s *Session,
	id uuid.UUID,
	changes TransactionChanges,
) (*dto.TransactionRead, error) {
	var out dto.TransactionRead
	if err := c.do(ctx, s, http.MethodPut, "/transactions/"+id.String(), nil, changes, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, s *Session, id uuid.UUID) error {
	return c.do(ctx, s, http.MethodDelete, "/transactions/"+id.String(), nil, nil, nil)
}

// ListBreakdowns returns the breakdowns of a transaction.
func (c *Client) ListBreakdowns(ctx context.Context, s *Session, id uuid.UUID) ([]dto.BreakdownRead, error) {
	var out []dto.BreakdownRead
	return out, c.do(ctx, s, http.MethodGet, "/transactions/"+id.String()+"/breakdowns", nil, nil, &out)
}

// AddBreakdown adds a breakdown and returns the updated transaction.
func (c *Client) AddBreakdown(ctx context.Context, s *Session, id uuid.UUID, b Breakdown) (*dto.TransactionRead, error) {
	var out dto.TransactionRead
	if err := c.do(ctx, s, http.MethodPost, "/transactions/"+id.String()+"/breakdowns", nil, b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTag creates a tag.
func (c *Client) CreateTag(ctx context.Context, s *Session, name string) (*dto.TagRead, error) {
	var out dto.TagRead
	if err := c.do(ctx, s, http.MethodPost, "/tags", nil, map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTags returns the tags visible to the session user.
func (c *Client) ListTags(ctx context.Context, s *Session) ([]dto.TagRead, error) {
	var out []dto.TagRead
	return out, c.do(ctx, s, http.MethodGet, "/tags", nil, nil, &out)
}

// AssignTag links a tag to a transaction.
func (c *Client) AssignTag(ctx context.Context, s *Session, transactionID, tagID uuid.UUID) error {
	in := map[string]string{"transaction_id": transactionID.String(), "tag_id": tagID.String()}
	return c.do(ctx, s, http.MethodPost, "/tags/assign", nil, in, nil)
}

// TagsForTransaction returns the tags assigned to a transaction.
func (c *Client) TagsForTransaction(ctx context.Context, s *Session, transactionID uuid.UUID) ([]dto.TagRead, error) {
	var out []dto.TagRead
	return out, c.do(ctx, s, http.MethodGet, "/tags/transaction/"+transactionID.String(), nil, nil, &out)
}

func dateRange(start, end string) url.Values {
	q := url.Values{}
	if start != "" {
		q.Set("start_date", start)
	}
	if end != "" {
		q.Set("end_date", end)
	}
	return q
}

// Summary fetches the spending reports. Dates are YYYY-MM-DD and optional.
func (c *Client) Summary(ctx context.Context, s *Session, start, end string) (*dto.SpendingSummary, error) {
	var out dto.SpendingSummary
	if err := c.do(ctx, s, http.MethodGet, "/reports", dateRange(start, end), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Exceeding lists transactions that spent more than their account held.
func (c *Client) Exceeding(ctx context.Context, s *Session, accountName string) ([]dto.ExceedingTransaction, error) {
	q := url.Values{}
	if accountName != "" {
		q.Set("account_name", accountName)
	}
	var out []dto.ExceedingTransaction
	return out, c.do(ctx, s, http.MethodGet, "/reports/exceeding", q, nil, &out)
}

// SummaryPDF downloads the summary as a PDF document.
func (c *Client) SummaryPDF(ctx context.Context, s *Session, start, end string) ([]byte, error) {
	resp, err := c.send(ctx, s, http.MethodGet, "/reports/summary.pdf", dateRange(start, end), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint: errcheck
	return io.ReadAll(resp.Body)
}
