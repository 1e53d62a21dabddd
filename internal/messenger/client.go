package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"team-status-backend/internal/board"
)

// ErrMessageNotFound is returned when the relay cannot locate a message,
// typically because it was deleted or the channel is gone.
var ErrMessageNotFound = errors.New("message not found")

// Message identifies a posted chat message.
type Message struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// Client is the outbound half of the interaction gateway: it can locate,
// edit and post board messages through the chat relay.
type Client interface {
	FetchMessage(ctx context.Context, channelID, messageID string) error
	EditMessage(ctx context.Context, channelID, messageID string, b board.Board) error
	PostMessage(ctx context.Context, channelID string, b board.Board) (Message, error)
}

// HTTPClient talks to the chat relay over its HTTP API.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient creates a relay client for the given base URL.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchMessage checks that the given message still exists.
func (c *HTTPClient) FetchMessage(ctx context.Context, channelID, messageID string) error {
	url := fmt.Sprintf("%s/channels/%s/messages/%s", c.baseURL, channelID, messageID)
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// EditMessage replaces the content of an existing message with the board.
func (c *HTTPClient) EditMessage(ctx context.Context, channelID, messageID string, b board.Board) error {
	url := fmt.Sprintf("%s/channels/%s/messages/%s", c.baseURL, channelID, messageID)
	resp, err := c.do(ctx, http.MethodPatch, url, b)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// PostMessage posts the board as a new message into the channel and returns
// the identifiers of the created message.
func (c *HTTPClient) PostMessage(ctx context.Context, channelID string, b board.Board) (Message, error) {
	url := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)
	resp, err := c.do(ctx, http.MethodPost, url, b)
	if err != nil {
		return Message{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return Message{}, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Message{}, fmt.Errorf("failed to read relay response: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, fmt.Errorf("failed to unmarshal relay response: %w", err)
	}
	if msg.ChannelID == "" || msg.MessageID == "" {
		return Message{}, fmt.Errorf("relay response is missing message identifiers")
	}
	return msg, nil
}

func (c *HTTPClient) do(ctx context.Context, method, url string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request payload: %w", err)
		}
		body = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrMessageNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	return nil
}
