package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is the production Gateway: a thin REST shim over the chat
// platform's HTTP API, authenticated with the bot token.
type Client struct {
	apiBase string
	token   string
	http    *http.Client
}

func NewClient(apiBase, token string) *Client {
	return &Client{
		apiBase: apiBase,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type message struct {
	ID string `json:"id"`
}

func (c *Client) SendMessage(channelID string, payload Payload) (string, error) {
	var msg message
	err := c.do(http.MethodPost, fmt.Sprintf("/channels/%s/messages", channelID), payload, &msg)
	if err != nil {
		return "", fmt.Errorf("send message to channel %s: %w", channelID, err)
	}
	return msg.ID, nil
}

func (c *Client) EditMessage(channelID, messageID string, payload Payload) error {
	err := c.do(http.MethodPatch, fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), payload, nil)
	if err != nil {
		return fmt.Errorf("edit message %s: %w", messageID, err)
	}
	return nil
}

func (c *Client) DeleteMessage(channelID, messageID string) error {
	err := c.do(http.MethodDelete, fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID), nil, nil)
	if err != nil {
		return fmt.Errorf("delete message %s: %w", messageID, err)
	}
	return nil
}

func (c *Client) FetchChannel(channelID string) (*Channel, error) {
	var ch Channel
	if err := c.do(http.MethodGet, "/channels/"+channelID, nil, &ch); err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w", channelID, err)
	}
	return &ch, nil
}

func (c *Client) FetchRole(guildID, roleID string) (*Role, error) {
	var role Role
	err := c.do(http.MethodGet, fmt.Sprintf("/guilds/%s/roles/%s", guildID, roleID), nil, &role)
	if err != nil {
		return nil, fmt.Errorf("fetch role %s: %w", roleID, err)
	}
	return &role, nil
}

func (c *Client) FetchMember(guildID, userID string) (*Member, error) {
	var member Member
	err := c.do(http.MethodGet, fmt.Sprintf("/guilds/%s/members/%s", guildID, userID), nil, &member)
	if err != nil {
		return nil, fmt.Errorf("fetch member %s: %w", userID, err)
	}
	return &member, nil
}

func (c *Client) DeleteRole(guildID, roleID string) error {
	err := c.do(http.MethodDelete, fmt.Sprintf("/guilds/%s/roles/%s", guildID, roleID), nil, nil)
	if err != nil {
		return fmt.Errorf("delete role %s: %w", roleID, err)
	}
	return nil
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, c.apiBase+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}

	return nil
}
