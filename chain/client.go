// Package chain walks a remote sequence of sliding-tile challenges: fetch a
// puzzle page, extract the embedded board, solve it, submit the moves, and
// follow the returned link until the chain ends.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pflow-xyz/go-npuzzle/board"
)

var (
	ErrHTTPStatus = errors.New("chain: unexpected HTTP status")
	ErrRejected   = errors.New("chain: submission rejected")
)

// maxBodySize caps how much of a puzzle page is read.
const maxBodySize = 1 << 20

// Client talks to a puzzle chain endpoint.
type Client struct {
	http *http.Client
}

// NewClient returns a client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Fetch retrieves a puzzle page body.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s from %s", ErrHTTPStatus, resp.Status, pageURL)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}
	return string(body), nil
}

// submitRequest is the wire form of a solution.
type submitRequest struct {
	Moves string `json:"moves"`
}

// SubmitResponse is the checker's verdict on a submitted solution.
type SubmitResponse struct {
	Solved  bool   `json:"solved"`
	Next    string `json:"next,omitempty"`
	Message string `json:"message,omitempty"`
}

// Submit posts a move sequence for the puzzle at pageURL and decodes the
// verdict. A relative Next link is resolved against pageURL.
func (c *Client) Submit(ctx context.Context, pageURL string, moves []board.Move) (SubmitResponse, error) {
	payload, err := json.Marshal(submitRequest{Moves: board.FormatMoves(moves)})
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pageURL, bytes.NewReader(payload))
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("submit to %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return SubmitResponse{}, fmt.Errorf("%w: %s from %s", ErrHTTPStatus, resp.Status, pageURL)
	}

	var verdict SubmitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&verdict); err != nil {
		return SubmitResponse{}, fmt.Errorf("decode verdict: %w", err)
	}
	if verdict.Next != "" {
		next, err := resolveURL(pageURL, verdict.Next)
		if err != nil {
			return SubmitResponse{}, err
		}
		verdict.Next = next
	}
	return verdict, nil
}

func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse next url: %w", err)
	}
	return b.ResolveReference(r).String(), nil
}
