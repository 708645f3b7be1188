package listEvents

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"eventHerald/internal/lib/api/response"
	"eventHerald/internal/models"
)

type ListResponse struct {
	response.Response
	Events []*models.Event `json:"events"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventLister
type EventLister interface {
	GuildEvents(guildID string) []*models.Event
}

func New(log *slog.Logger, events EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.listEvents.New"

		log = log.With(slog.String("op", op))

		guildID := chi.URLParam(r, "guildID")
		if guildID == "" {
			log.Error("guild id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("guild id is required"))
			return
		}

		list := events.GuildEvents(guildID)

		log.Info("events listed", slog.String("guild_id", guildID), slog.Int("count", len(list)))

		render.JSON(w, r, ListResponse{
			Response: response.OK(),
			Events:   list,
		})
	}
}
