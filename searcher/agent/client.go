package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MoveReply is the agent server's answer for a position.
type MoveReply struct {
	Move   string    `json:"move"`
	FEN    string    `json:"fen"`
	Moves  []string  `json:"moves"`
	Policy []float64 `json:"policy"`
}

// Client asks a remote agent server for moves.
type Client struct {
	serverURL string
	http      *http.Client
}

func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      http.DefaultClient,
	}
}

// RequestMove posts fen to /move. iterations and mode fall back to the server
// defaults when zero or empty.
func (c *Client) RequestMove(ctx context.Context, fen string, iterations int, mode string) (MoveReply, error) {
	body, err := json.Marshal(moveRequest{FEN: fen, Iterations: iterations, Mode: mode})
	if err != nil {
		return MoveReply{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/move", bytes.NewReader(body))
	if err != nil {
		return MoveReply{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return MoveReply{}, fmt.Errorf("failed to reach agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return MoveReply{}, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(out)))
	}

	var reply MoveReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return MoveReply{}, fmt.Errorf("failed to decode move: %w", err)
	}
	return reply, nil
}
