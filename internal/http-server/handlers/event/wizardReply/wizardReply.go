package wizardReply

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
	"eventHerald/internal/wizard"
)

// ReplyRequest drives one step of a user's wizard session. The first call
// for a user starts a session: a creation session when EditEventID is
// empty, otherwise an edit session seeded from that event.
type ReplyRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	ChannelID   string `json:"channel_id"`
	Reply       string `json:"reply"`
	EditEventID string `json:"edit_event_id"`
}

type ReplyResponse struct {
	response.Response
	Prompt  string `json:"prompt,omitempty"`
	Retry   string `json:"retry,omitempty"`
	Done    bool   `json:"done,omitempty"`
	EventID string `json:"event_id,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventSaver
type EventSaver interface {
	Event(guildID, eventID string) (*models.Event, bool)
	Set(ev *models.Event) error
	Publish(ev *models.Event)
	Reconcile(ev *models.Event, skipMessageID string)
}

func New(log *slog.Logger, events EventSaver, sessions *wizard.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.wizardReply.New"

		log = log.With(slog.String("op", op))

		guildID := chi.URLParam(r, "guildID")
		if guildID == "" {
			log.Error("guild id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("guild id is required"))
			return
		}

		var req ReplyRequest

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

		session, ok := sessions.Get(guildID, req.UserID)
		if !ok {
			session, ok = startSession(guildID, &req, events)
			if !ok {
				log.Info("edit target not found", slog.String("event_id", req.EditEventID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}
			sessions.Put(guildID, req.UserID, session)

			log.Info("wizard session started", slog.String("user_id", req.UserID))

			render.JSON(w, r, ReplyResponse{
				Response: response.OK(),
				Prompt:   session.Prompt(),
			})
			return
		}

		outcome := session.Handle(req.Reply)

		switch outcome.Kind {
		case wizard.OutcomeContinue:
			render.JSON(w, r, ReplyResponse{
				Response: response.OK(),
				Prompt:   session.Prompt(),
			})

		case wizard.OutcomeRetry:
			render.JSON(w, r, ReplyResponse{
				Response: response.OK(),
				Prompt:   session.Prompt(),
				Retry:    outcome.Reason,
			})

		case wizard.OutcomeCancelled:
			sessions.Remove(guildID, req.UserID)

			log.Info("wizard session cancelled", slog.String("user_id", req.UserID))

			render.JSON(w, r, ReplyResponse{Response: response.OK(), Done: true})

		case wizard.OutcomeDone:
			sessions.Remove(guildID, req.UserID)

			event := outcome.Event
			isEdit := req.EditEventID != "" || len(event.Posts) > 0

			if err = events.Set(event); err != nil {
				log.Error("failed to save event from wizard", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to save event"))
				return
			}

			if isEdit {
				events.Reconcile(event, "")
			} else {
				events.Publish(event)
			}

			log.Info("wizard session completed", slog.String("event_id", event.ID))

			render.JSON(w, r, ReplyResponse{
				Response: response.OK(),
				Done:     true,
				EventID:  event.ID,
			})
		}
	}
}

func startSession(guildID string, req *ReplyRequest, events EventSaver) (*wizard.Session, bool) {
	if req.EditEventID == "" {
		return wizard.New(guildID, req.ChannelID, req.UserID), true
	}

	event, ok := events.Event(guildID, req.EditEventID)
	if !ok {
		return nil, false
	}
	return wizard.Edit(event), true
}
