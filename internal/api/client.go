package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"EconomySentinel/internal/model"
)

// SyncResult is the authoritative outcome of a mutating request.
type SyncResult struct {
	Rewards  model.Ledger `json:"rewards"`
	NewState model.Ledger `json:"new_state"`
	LevelUp  bool         `json:"level_up"`
}

// Backend is the authoritative economy API consumed by the manager.
type Backend interface {
	FetchState(ctx context.Context) (model.Ledger, error)
	SpendEnergy(ctx context.Context, tx *model.Transaction) (*SyncResult, error)
	ProcessResult(ctx context.Context, tx *model.Transaction) (*SyncResult, error)
	Name() string
}

// Client implements Backend against the economy REST API.
// Exactly one of UserID/SessionID identifies the caller; UserID wins
// when both are configured, the two are never sent together.
type Client struct {
	BaseURL   string
	SessionID string
	UserID    string
	Client    *http.Client
}

// NewClient creates a client with optional proxy support.
func NewClient(baseURL, sessionID, userID, proxyURL string) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		BaseURL:   baseURL,
		SessionID: sessionID,
		UserID:    userID,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (c *Client) Name() string { return "economy-api" }

// FetchState retrieves the full authoritative ledger.
func (c *Client) FetchState(ctx context.Context) (model.Ledger, error) {
	endpoint := fmt.Sprintf("%s/api/economy/state?%s", c.BaseURL, c.identityQuery())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch state: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch state: %w: status %d, body: %s", model.ErrServerRejected, resp.StatusCode, string(body))
	}
	var result struct {
		State model.Ledger `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return result.State, nil
}

// SpendEnergy submits an energy-spend transaction to the dedicated endpoint.
func (c *Client) SpendEnergy(ctx context.Context, tx *model.Transaction) (*SyncResult, error) {
	body := map[string]any{
		"transaction_id": tx.ID,
		"amount":         tx.Amount,
		"activity_type":  tx.Context,
	}
	c.addIdentity(body)
	return c.post(ctx, "/api/economy/spend-energy", body)
}

// ProcessResult submits a completed quiz or practice round for reward processing.
func (c *Client) ProcessResult(ctx context.Context, tx *model.Transaction) (*SyncResult, error) {
	r := tx.Result
	body := map[string]any{
		"transaction_id":  tx.ID,
		"type":            r.Type,
		"category":        r.Category,
		"difficulty":      r.Difficulty,
		"mode":            r.Mode,
		"correct_answers": r.CorrectAnswers,
		"total_questions": r.TotalQuestions,
		"time_spent":      r.TimeSpent,
		"perfect_score":   r.PerfectScore,
		"streak":          r.Streak,
	}
	c.addIdentity(body)
	return c.post(ctx, "/api/economy/process-result", body)
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) (*SyncResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", c.SessionID)
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("post %s: %w: status %d, body: %s", path, model.ErrServerRejected, resp.StatusCode, string(respBody))
	}
	var result SyncResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return &result, nil
}

func (c *Client) identityQuery() string {
	if c.UserID != "" {
		return "user_id=" + url.QueryEscape(c.UserID)
	}
	return "session_id=" + url.QueryEscape(c.SessionID)
}

func (c *Client) addIdentity(body map[string]any) {
	if c.UserID != "" {
		body["user_id"] = c.UserID
		return
	}
	body["session_id"] = c.SessionID
}
