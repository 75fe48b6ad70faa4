package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"futkings-live/internal/config"
	"futkings-live/internal/constants"
)

// StoreClient talks to the persistence boundary: the outer application's
// match store. The engine reads a match exactly once at load and writes
// upsert-style pushes while the match is live.
type StoreClient struct {
	baseURL string
	apiKey  string
	client  *fasthttp.Client
}

func NewStoreClient(cfg *config.Config) *StoreClient {
	return &StoreClient{
		baseURL: cfg.StoreBaseURL,
		apiKey:  cfg.StoreAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.StoreAPITimeout,
			WriteTimeout:        constants.StoreAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// GetMatch loads the full read model: match, nested teams, rostered players
// and their stored stat lines.
func (c *StoreClient) GetMatch(ctx context.Context, matchID string) (*MatchResponse, error) {
	url := fmt.Sprintf("%s/matches/%s", c.baseURL, matchID)
	return doGet[MatchResponse](ctx, c, url)
}

// GetTeamPlayers loads a team's roster.
func (c *StoreClient) GetTeamPlayers(ctx context.Context, teamID string) ([]PlayerPayload, error) {
	url := fmt.Sprintf("%s/teams/%s/players", c.baseURL, teamID)
	resp, err := doGet[TeamPlayersResponse](ctx, c, url)
	if err != nil {
		return nil, err
	}
	return resp.Players, nil
}

// PutMatch pushes one reconciliation payload. The store applies each entry
// in Events as an increment to its per-player counter, so a failed push can
// be retried with the same (or a widened) diff without double counting.
func (c *StoreClient) PutMatch(ctx context.Context, matchID string, payload PutMatchRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal match payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/matches/%s", c.baseURL, matchID))
	req.Header.SetMethod(fasthttp.MethodPut)
	req.Header.SetContentType("application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	req.SetBody(body)

	if err := c.do(ctx, req, resp); err != nil {
		return err
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("store error: %d", resp.StatusCode())
	}
	return nil
}

func (c *StoreClient) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		return c.client.DoDeadline(req, resp, deadline)
	}
	return c.client.Do(req, resp)
}

func doGet[T any](ctx context.Context, client *StoreClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	if client.apiKey != "" {
		req.Header.Set("Authorization", client.apiKey)
	}

	if err := client.do(ctx, req, resp); err != nil {
		return nil, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("store error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
