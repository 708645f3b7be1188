package createEvent

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"eventHerald/internal/lib/api/response"
	"eventHerald/internal/lib/logger/sl"
	"eventHerald/internal/models"
	"eventHerald/internal/recurrence"
)

type EventRequest struct {
	ChannelID       string           `json:"channel_id" validate:"required"`
	OrganizerID     string           `json:"organizer_id" validate:"required"`
	Name            string           `json:"name" validate:"required"`
	Description     string           `json:"description"`
	Timezone        string           `json:"timezone" validate:"required"`
	Start           time.Time        `json:"start" validate:"required"`
	DurationMinutes int              `json:"duration_minutes" validate:"min=0"`
	Recurrence      *recurrence.Rule `json:"recurrence,omitempty"`
	Options         []OptionRequest  `json:"attendance_options" validate:"required,min=1,dive"`
	Role            *RoleRequest     `json:"role,omitempty"`
}

type OptionRequest struct {
	Token string `json:"token" validate:"required"`
	Label string `json:"label" validate:"required"`
}

type RoleRequest struct {
	RoleID     string `json:"role_id" validate:"required"`
	AutoDelete bool   `json:"auto_delete"`
}

type EventResponse struct {
	response.Response
	EventID string `json:"event_id"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	Set(ev *models.Event) error
	Publish(ev *models.Event)
}

func New(log *slog.Logger, events EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.createEvent.New"

		log = log.With(
			slog.String("op", op),
		)

		guildID := chi.URLParam(r, "guildID")
		if guildID == "" {
			log.Error("guild id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("guild id is required"))
			return
		}

		var req EventRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))

			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		if msg, ok := validateEvent(&req); !ok {
			log.Error("invalid event", slog.String("reason", msg))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(msg))

			return
		}

		event := buildEvent(guildID, &req)

		if err = events.Set(event); err != nil {
			log.Error("failed to save event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to save event"))

			return
		}

		events.Publish(event)

		log.Info("event created", slog.String("event_id", event.ID))

		responseOK(w, r, event.ID)
	}
}

func validateEvent(req *EventRequest) (string, bool) {
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return "unknown timezone", false
	}

	seen := make(map[string]bool)
	for _, opt := range req.Options {
		if seen[opt.Token] {
			return "duplicate response token", false
		}
		seen[opt.Token] = true
	}

	if req.Recurrence != nil {
		if err := req.Recurrence.Validate(); err != nil {
			return err.Error(), false
		}
	}

	return "", true
}

func buildEvent(guildID string, req *EventRequest) *models.Event {
	event := &models.Event{
		ID:              uuid.NewString(),
		GuildID:         guildID,
		ChannelID:       req.ChannelID,
		OrganizerID:     req.OrganizerID,
		Name:            req.Name,
		Description:     req.Description,
		Timezone:        req.Timezone,
		Start:           req.Start.UTC(),
		DurationMinutes: req.DurationMinutes,
		Recurrence:      req.Recurrence,
		Posts:           make(map[string]models.Post),
		Attendees:       make(map[string]*models.Attendee),
	}

	for _, opt := range req.Options {
		event.AttendanceOptions = append(event.AttendanceOptions, models.AttendanceOption{
			Token: opt.Token,
			Label: opt.Label,
		})
	}

	if req.Role != nil {
		event.Role = &models.EventRole{
			RoleID:     req.Role.RoleID,
			AutoDelete: req.Role.AutoDelete,
		}
	}

	return event
}

func responseOK(w http.ResponseWriter, r *http.Request, eventID string) {
	render.JSON(w, r, EventResponse{
		Response: response.OK(),
		EventID:  eventID,
	})
}
