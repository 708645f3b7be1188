package getEvent

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"eventHerald/internal/lib/api/response"
	"eventHerald/internal/models"
)

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventProvider
type EventProvider interface {
	Event(guildID, eventID string) (*models.Event, bool)
}

func New(log *slog.Logger, events EventProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getEvent.New"

		log = log.With(slog.String("op", op))

		guildID := chi.URLParam(r, "guildID")
		eventID := chi.URLParam(r, "eventID")
		if guildID == "" || eventID == "" {
			log.Error("guild id and event id are required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("guild id and event id are required"))
			return
		}

		event, ok := events.Event(guildID, eventID)
		if !ok {
			log.Info("event not found", slog.String("event_id", eventID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
			return
		}

		render.JSON(w, r, EventResponse{
			Response: response.OK(),
			Event:    event,
		})
	}
}
