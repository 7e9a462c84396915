package pipefy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/machinebox/graphql"
)

const (
	DefaultEndpoint = "https://api.pipefy.com/graphql"
)

var (
	// ErrMalformedPageInfo means allCards.pageInfo was missing from a response.
	// Pagination cannot continue safely without it.
	ErrMalformedPageInfo = errors.New("pipefy: response has no allCards.pageInfo")
	ErrMalformedCards    = errors.New("pipefy: response has no allCards")
	ErrPipeNotFound      = errors.New("pipefy: pipe not found")
)

// Client is a GraphQL client for the Pipefy API.
// It is safe for concurrent use.
type Client struct {
	gql *graphql.Client
}

// NewClient creates a Pipefy client. httpClient carries authentication
// (see oauth.NewBearerClient); logger may be nil.
func NewClient(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	gql := graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient))
	if logger != nil {
		gql.Log = func(s string) {
			logger.Debug(s, "component", "pipefy")
		}
	}
	return &Client{gql: gql}
}

type allCardsResponse struct {
	AllCards *struct {
		PageInfo *PageInfo `json:"pageInfo"`
		Edges    []struct {
			Node Card `json:"node"`
		} `json:"edges"`
	} `json:"allCards"`
}

type pipeResponse struct {
	Pipe *Pipe `json:"pipe"`
}

// PageInfo returns the pagination block of the page after the given cursor.
func (c *Client) PageInfo(ctx context.Context, pipeID, after string) (*PageInfo, error) {
	req := graphql.NewRequest(pageInfoQuery)
	req.Var("pipeId", pipeID)
	if after != "" {
		req.Var("after", after)
	}

	var resp allCardsResponse
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("page info for pipe %s: %w", pipeID, err)
	}
	if resp.AllCards == nil || resp.AllCards.PageInfo == nil {
		return nil, fmt.Errorf("page info for pipe %s: %w", pipeID, ErrMalformedPageInfo)
	}
	return resp.AllCards.PageInfo, nil
}

// Cards returns the cards of one page.
func (c *Client) Cards(ctx context.Context, q CardsQuery) ([]Card, error) {
	req := graphql.NewRequest(cardsQuery)
	req.Var("pipeId", q.PipeID)
	if q.After != "" {
		req.Var("after", q.After)
	}
	req.Var("id", q.ID)
	req.Var("title", q.Title)
	req.Var("currentPhase", q.CurrentPhase)
	req.Var("labels", q.Labels)
	req.Var("assignees", q.Assignees)
	req.Var("createdAt", q.CreatedAt)
	req.Var("updatedAt", q.UpdatedAt)
	req.Var("dueDate", q.DueDate)
	req.Var("fields", q.Fields)
	req.Var("phasesHistory", q.PhasesHistory)

	var resp allCardsResponse
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("cards for pipe %s: %w", q.PipeID, err)
	}
	if resp.AllCards == nil {
		return nil, fmt.Errorf("cards for pipe %s: %w", q.PipeID, ErrMalformedCards)
	}

	cards := make([]Card, 0, len(resp.AllCards.Edges))
	for _, edge := range resp.AllCards.Edges {
		cards = append(cards, edge.Node)
	}
	return cards, nil
}

// Pipe returns the pipe schema selected by q.
func (c *Client) Pipe(ctx context.Context, q PipeQuery) (*Pipe, error) {
	req := graphql.NewRequest(pipeQuery)
	req.Var("pipeId", q.PipeID)
	req.Var("startFormFields", q.StartFormFields)
	req.Var("phasesData", q.PhasesData)
	req.Var("phasesFormsFields", q.PhasesFormsFields)

	var resp pipeResponse
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("schema for pipe %s: %w", q.PipeID, err)
	}
	if resp.Pipe == nil {
		return nil, fmt.Errorf("schema for pipe %s: %w", q.PipeID, ErrPipeNotFound)
	}
	return resp.Pipe, nil
}
