package editEvent

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"eventHerald/internal/lib/api/response"
	"eventHerald/internal/lib/logger/sl"
	"eventHerald/internal/models"
	"eventHerald/internal/recurrence"
)

// EditRequest carries only the fields to change; absent fields keep their
// current value. ClearRecurrence turns a recurring event into a one-shot.
type EditRequest struct {
	ActorID      string `json:"actor_id" validate:"required"`
	ActorIsStaff bool   `json:"actor_is_staff"`

	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Start           *time.Time       `json:"start,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	Recurrence      *recurrence.Rule `json:"recurrence,omitempty"`
	ClearRecurrence bool             `json:"clear_recurrence"`
}

type EditResponse struct {
	response.Response
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventEditor
type EventEditor interface {
	Event(guildID, eventID string) (*models.Event, bool)
	Set(ev *models.Event) error
	Reconcile(ev *models.Event, skipMessageID string)
}

func New(log *slog.Logger, events EventEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.editEvent.New"

		log = log.With(slog.String("op", op))

		guildID := chi.URLParam(r, "guildID")
		eventID := chi.URLParam(r, "eventID")
		if guildID == "" || eventID == "" {
			log.Error("guild id and event id are required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("guild id and event id are required"))
			return
		}

		log = log.With(slog.String("event_id", eventID))

		var req EditRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		if req.Recurrence != nil {
			if err = req.Recurrence.Validate(); err != nil {
				log.Error("invalid recurrence", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(err.Error()))
				return
			}
		}

		event, ok := events.Event(guildID, eventID)
		if !ok {
			log.Info("event not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
			return
		}

		if event.OrganizerID != req.ActorID && !req.ActorIsStaff {
			log.Info("edit denied", slog.String("actor_id", req.ActorID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("only the organizer or staff may edit this event"))
			return
		}

		apply(event, &req)

		if err = events.Set(event); err != nil {
			log.Error("failed to save event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to save event"))
			return
		}

		events.Reconcile(event, "")

		log.Info("event edited", slog.String("actor_id", req.ActorID))

		render.JSON(w, r, EditResponse{Response: response.OK()})
	}
}

func apply(event *models.Event, req *EditRequest) {
	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Start != nil {
		event.Start = req.Start.UTC()
		event.ResetAnnounced()
	}
	if req.DurationMinutes != nil && *req.DurationMinutes >= 0 {
		event.DurationMinutes = *req.DurationMinutes
	}
	if req.ClearRecurrence {
		event.Recurrence = nil
	} else if req.Recurrence != nil {
		event.Recurrence = req.Recurrence
	}
}
