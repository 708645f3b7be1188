package cancelEvent

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"eventHerald/internal/lib/api/response"
	"eventHerald/internal/lib/logger/sl"
	"eventHerald/internal/models"
)

type CancelRequest struct {
	ActorID string `json:"actor_id" validate:"required"`
	// ActorIsStaff is resolved by the chat frontend before the request
	// reaches us; staff may cancel any event.
	ActorIsStaff bool `json:"actor_is_staff"`
}

type CancelResponse struct {
	response.Response
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCanceller
type EventCanceller interface {
	Event(guildID, eventID string) (*models.Event, bool)
	Delete(ev *models.Event) error
}

func New(log *slog.Logger, events EventCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.cancelEvent.New"

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

		var req CancelRequest

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

		event, ok := events.Event(guildID, eventID)
		if !ok {
			log.Info("event not found")
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
			return
		}

		if event.OrganizerID != req.ActorID && !req.ActorIsStaff {
			log.Info("cancel denied", slog.String("actor_id", req.ActorID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("only the organizer or staff may cancel this event"))
			return
		}

		if err = events.Delete(event); err != nil {
			log.Error("failed to cancel event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to cancel event"))
			return
		}

		log.Info("event cancelled", slog.String("actor_id", req.ActorID))

		render.JSON(w, r, CancelResponse{Response: response.OK()})
	}
}
