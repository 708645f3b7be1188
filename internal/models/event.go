package models

import (
	"time"

	"eventHerald/internal/recurrence"
)

// Event is the aggregate for one scheduled (possibly recurring) happening.
// Start is always kept in UTC; Timezone is only used for display and for
// anchoring recurrence computation.
type Event struct {
	ID          string `json:"id"`
	GuildID     string `json:"guild_id"`
	ChannelID   string `json:"channel_id"`
	OrganizerID string `json:"organizer_id"`

	Name        string `json:"name"`
	Description string `json:"description"`

	Timezone        string    `json:"timezone"`
	Start           time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`

	Recurrence *recurrence.Rule `json:"recurrence,omitempty"`

	AttendanceOptions []AttendanceOption `json:"attendance_options"`

	Role *EventRole `json:"role,omitempty"`

	// Posts maps a message id to the channel the post lives in.
	Posts map[string]Post `json:"posts"`

	// Attendees maps a user id to their single active response.
	Attendees map[string]*Attendee `json:"attendees"`

	// announced latches the "starting" announcement for the current
	// occurrence. Not persisted; after a restart an ongoing occurrence
	// may announce once more.
	announced bool
}

// AttendanceOption is one selectable response choice. Slice order is
// display order; Token is unique within an event.
type AttendanceOption struct {
	Token string `json:"token"`
	Label string `json:"label"`
}

type EventRole struct {
	RoleID     string `json:"role_id"`
	AutoDelete bool   `json:"auto_delete"`
}

// Post is the handle for one live announcement message.
type Post struct {
	ChannelID string `json:"channel_id"`
}

type Attendee struct {
	DisplayName string `json:"display_name"`
	Token       string `json:"token"`
}

// End returns the instant the current occurrence stops being "ongoing".
// For a zero-duration event this equals Start.
func (e *Event) End() time.Time {
	return e.Start.Add(time.Duration(e.DurationMinutes) * time.Minute)
}

func (e *Event) Announced() bool {
	return e.announced
}

func (e *Event) MarkAnnounced() {
	e.announced = true
}

func (e *Event) ResetAnnounced() {
	e.announced = false
}

// Option returns the attendance option carrying the given token.
func (e *Event) Option(token string) (AttendanceOption, bool) {
	for _, opt := range e.AttendanceOptions {
		if opt.Token == token {
			return opt, true
		}
	}
	return AttendanceOption{}, false
}

// Location resolves the event's display timezone, falling back to UTC if
// the stored zone name no longer resolves.
func (e *Event) Location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (e *Event) AddPost(messageID, channelID string) {
	if e.Posts == nil {
		e.Posts = make(map[string]Post)
	}
	e.Posts[messageID] = Post{ChannelID: channelID}
}

func (e *Event) RemovePost(messageID string) {
	delete(e.Posts, messageID)
}

// ClearAttendees resets the attendance list for a fresh occurrence.
func (e *Event) ClearAttendees() {
	e.Attendees = make(map[string]*Attendee)
}
