package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// actorRunStatus is the small state machine an actor-platform job
// passes through; only SUCCEEDED and FAILED are terminal.
type actorRunStatus string

const (
	actorRunning   actorRunStatus = "RUNNING"
	actorSucceeded actorRunStatus = "SUCCEEDED"
	actorFailed    actorRunStatus = "FAILED"
)

// pollActorRun polls an actor-platform run-status endpoint with a
// bounded number of fixed-interval sleeps, per spec §5's "Actor-based
// scrapers poll their run status with bounded sleeps (<=60 polls, 2s
// each)". statusFn performs one status check; it is called at most
// maxPolls times.
func pollActorRun(ctx context.Context, maxPolls int, interval time.Duration, statusFn func(ctx context.Context) (actorRunStatus, error)) (actorRunStatus, error) {
	if maxPolls <= 0 || maxPolls > 60 {
		maxPolls = 60
	}
	for i := 0; i < maxPolls; i++ {
		status, err := statusFn(ctx)
		if err != nil {
			return actorFailed, err
		}
		if status == actorSucceeded || status == actorFailed {
			return status, nil
		}
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return actorFailed, ctx.Err()
		}
	}
	return actorFailed, fmt.Errorf("actor run did not complete within %d polls", maxPolls)
}

// actorClient is a minimal JSON client for actor-backed adapters
// (currently MAPS_SECONDARY).
type actorClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func newActorClient(baseURL, token string) *actorClient {
	return &actorClient{BaseURL: baseURL, Token: token, HTTP: &http.Client{Timeout: 20 * time.Second}}
}

func (c *actorClient) startRun(ctx context.Context, actorSlug string, input map[string]interface{}) (string, error) {
	body, _ := json.Marshal(input)
	endpoint := fmt.Sprintf("%s/actors/%s/runs?token=%s", c.BaseURL, actorSlug, c.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var parsed struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Data.ID, nil
}

func (c *actorClient) runStatus(ctx context.Context, runID string) (actorRunStatus, error) {
	endpoint := fmt.Sprintf("%s/actor-runs/%s?token=%s", c.BaseURL, runID, c.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return actorFailed, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return actorFailed, err
	}
	defer resp.Body.Close()
	var parsed struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return actorFailed, err
	}
	switch parsed.Data.Status {
	case "SUCCEEDED":
		return actorSucceeded, nil
	case "FAILED", "ABORTED", "TIMED-OUT":
		return actorFailed, nil
	default:
		return actorRunning, nil
	}
}

func (c *actorClient) fetchDataset(ctx context.Context, runID string) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/actor-runs/%s/dataset/items?token=%s", c.BaseURL, runID, c.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var items []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(items))
	for _, it := range items {
		out = append(out, Record(it))
	}
	return out, nil
}
