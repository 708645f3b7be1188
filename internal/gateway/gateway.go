package gateway

import "errors"

// ErrNotFound reports that a channel, message, member or role no longer
// exists on the chat platform. Callers treat it as a resolution failure:
// log, skip the affected operation, keep going.
var ErrNotFound = errors.New("gateway: not found")

// Payload is the rendered content of one announcement message. It is a
// plain value; all rendering logic lives in the posts package.
type Payload struct {
	Content     string      `json:"content,omitempty"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Fields      []Field     `json:"fields,omitempty"`
	Buttons     [][]Button  `json:"buttons,omitempty"`
}

type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Button struct {
	CustomID string `json:"custom_id"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

type Channel struct {
	ID      string `json:"id"`
	GuildID string `json:"guild_id"`
	Name    string `json:"name"`
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Gateway is the messaging transport the scheduler talks to. Every call
// is a network round trip; implementations return ErrNotFound when the
// referenced entity is gone.
//
//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Gateway
type Gateway interface {
	SendMessage(channelID string, payload Payload) (string, error)
	EditMessage(channelID, messageID string, payload Payload) error
	DeleteMessage(channelID, messageID string) error

	FetchChannel(channelID string) (*Channel, error)
	FetchRole(guildID, roleID string) (*Role, error)
	FetchMember(guildID, userID string) (*Member, error)

	DeleteRole(guildID, roleID string) error
}
