package posts

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"eventHerald/internal/gateway"
	"eventHerald/internal/lib/logger/sl"
	"eventHerald/internal/models"
)

// Status is the lifecycle annotation rendered onto a post.
type Status int

const (
	StatusUpcoming Status = iota
	StatusOngoing
	StatusFinished
)

// Button custom-id prefixes, matched by the interaction handler.
const (
	CustomIDAttendance = "eventAttendance"
	CustomIDEdit       = "eventEdit"
	CustomIDDelete     = "eventDelete"
)

// AttendanceCustomID builds the custom id for one attendance button.
func AttendanceCustomID(eventID, token string) string {
	return fmt.Sprintf("%s:%s:%s", CustomIDAttendance, eventID, token)
}

// Render produces the announcement payload for an event's current state.
// Pure: same event and status, same payload.
func Render(e *models.Event, status Status) gateway.Payload {
	payload := gateway.Payload{
		Title:       e.Name,
		Description: e.Description,
	}

	loc := e.Location()
	var schedule strings.Builder
	fmt.Fprintf(&schedule, "Starts %s", e.Start.In(loc).Format("Mon, Jan 2 2006 at 15:04 MST"))
	if e.DurationMinutes > 0 {
		fmt.Fprintf(&schedule, " for %s", (time.Duration(e.DurationMinutes) * time.Minute).String())
	}
	if e.Recurrence != nil {
		fmt.Fprintf(&schedule, ", repeats %s", e.Recurrence.Summary())
	}
	switch status {
	case StatusOngoing:
		schedule.WriteString(" — happening now")
	case StatusFinished:
		schedule.WriteString(" — finished")
	}

	payload.Fields = append(payload.Fields, gateway.Field{
		Name:  "Schedule",
		Value: schedule.String(),
	})

	for _, opt := range e.AttendanceOptions {
		var names []string
		for _, a := range e.Attendees {
			if a.Token == opt.Token {
				names = append(names, a.DisplayName)
			}
		}
		sort.Strings(names)

		value := "nobody yet"
		if len(names) > 0 {
			value = strings.Join(names, "\n")
		}

		payload.Fields = append(payload.Fields, gateway.Field{
			Name:  fmt.Sprintf("%s %s (%d)", opt.Token, opt.Label, len(names)),
			Value: value,
		})
	}

	payload.Buttons = buttonRows(e, status == StatusFinished)

	return payload
}

// buttonRows lays out one button per attendance option in rows of five,
// then a control row with edit and delete. Finished posts keep their
// buttons but disabled.
func buttonRows(e *models.Event, disabled bool) [][]gateway.Button {
	var rows [][]gateway.Button

	var row []gateway.Button
	for _, opt := range e.AttendanceOptions {
		row = append(row, gateway.Button{
			CustomID: AttendanceCustomID(e.ID, opt.Token),
			Label:    fmt.Sprintf("%s %s", opt.Token, opt.Label),
			Disabled: disabled,
		})
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []gateway.Button{
		{CustomID: fmt.Sprintf("%s:%s", CustomIDEdit, e.ID), Label: "Edit", Disabled: disabled},
		{CustomID: fmt.Sprintf("%s:%s", CustomIDDelete, e.ID), Label: "Delete", Disabled: disabled},
	})

	return rows
}

// DisabledButtons renders a payload's buttons greyed out in place, used
// when a button for a retired event is pressed.
func DisabledButtons(e *models.Event) [][]gateway.Button {
	return buttonRows(e, true)
}

// Synchronizer keeps every live post of an event aligned with its state.
type Synchronizer struct {
	log *slog.Logger
	gw  gateway.Gateway
}

func NewSynchronizer(log *slog.Logger, gw gateway.Gateway) *Synchronizer {
	return &Synchronizer{log: log, gw: gw}
}

// Publish creates a fresh post in each given channel and records the new
// message handles on the event. A channel that fails to accept the post is
// logged and skipped.
func (s *Synchronizer) Publish(e *models.Event, channelIDs ...string) {
	payload := Render(e, StatusUpcoming)

	for _, channelID := range channelIDs {
		messageID, err := s.gw.SendMessage(channelID, payload)
		if err != nil {
			s.log.Error("failed to publish event post",
				slog.String("event_id", e.ID),
				slog.String("channel_id", channelID),
				sl.Err(err),
			)
			continue
		}
		e.AddPost(messageID, channelID)
	}
}

// Reconcile pushes the current rendering to every live post except the one
// named by skipMessageID (the post the caller is already updating inline).
// Posts whose message has vanished are dropped from the event.
func (s *Synchronizer) Reconcile(e *models.Event, skipMessageID string, status Status) {
	payload := Render(e, status)

	for messageID, post := range e.Posts {
		if messageID == skipMessageID {
			continue
		}
		if err := s.gw.EditMessage(post.ChannelID, messageID, payload); err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				e.RemovePost(messageID)
			}
			s.log.Error("failed to refresh event post",
				slog.String("event_id", e.ID),
				slog.String("message_id", messageID),
				sl.Err(err),
			)
		}
	}
}

// Finish closes out the current occurrence's posts: copies in the
// aggregation (info) channel are deleted outright so that channel only
// ever lists upcoming events, all other copies are edited in place with
// the finished annotation.
func (s *Synchronizer) Finish(e *models.Event, infoChannelID string) {
	payload := Render(e, StatusFinished)

	for messageID, post := range e.Posts {
		if infoChannelID != "" && post.ChannelID == infoChannelID {
			if err := s.gw.DeleteMessage(post.ChannelID, messageID); err != nil && !errors.Is(err, gateway.ErrNotFound) {
				s.log.Error("failed to delete info-channel post",
					slog.String("event_id", e.ID),
					slog.String("message_id", messageID),
					sl.Err(err),
				)
			}
			e.RemovePost(messageID)
			continue
		}

		if err := s.gw.EditMessage(post.ChannelID, messageID, payload); err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				e.RemovePost(messageID)
			}
			s.log.Error("failed to mark event post finished",
				slog.String("event_id", e.ID),
				slog.String("message_id", messageID),
				sl.Err(err),
			)
		}
	}
}

// Expire disables the buttons of a post whose event is no longer live,
// leaving a single inert marker in their place.
func (s *Synchronizer) Expire(channelID, messageID string) {
	payload := gateway.Payload{
		Buttons: [][]gateway.Button{{
			{CustomID: "eventExpired", Label: "Event is over", Disabled: true},
		}},
	}

	if err := s.gw.EditMessage(channelID, messageID, payload); err != nil && !errors.Is(err, gateway.ErrNotFound) {
		s.log.Error("failed to expire post buttons",
			slog.String("message_id", messageID),
			sl.Err(err),
		)
	}
}

// Teardown deletes every live post. Used when an occurrence recurs (new
// posts follow) or when an event is cancelled.
func (s *Synchronizer) Teardown(e *models.Event) {
	for messageID, post := range e.Posts {
		if err := s.gw.DeleteMessage(post.ChannelID, messageID); err != nil && !errors.Is(err, gateway.ErrNotFound) {
			s.log.Error("failed to delete event post",
				slog.String("event_id", e.ID),
				slog.String("message_id", messageID),
				sl.Err(err),
			)
		}
		e.RemovePost(messageID)
	}
}
