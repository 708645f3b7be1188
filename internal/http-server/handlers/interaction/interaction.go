package interaction

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"eventHerald/internal/attendance"
	"eventHerald/internal/gateway"
	"eventHerald/internal/lib/api/response"
	"eventHerald/internal/lib/logger/sl"
	"eventHerald/internal/models"
	"eventHerald/internal/posts"
)

// InteractionRequest is one button press relayed by the chat frontend.
// CustomID carries the action and event id, e.g.
// "eventAttendance:<eventID>:<token>", "eventEdit:<eventID>",
// "eventDelete:<eventID>".
type InteractionRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	DisplayName string `json:"display_name"`
	MessageID   string `json:"message_id" validate:"required"`
	ChannelID   string `json:"channel_id" validate:"required"`
	CustomID    string `json:"custom_id" validate:"required"`
	IsStaff     bool   `json:"is_staff"`
}

type InteractionResponse struct {
	response.Response
	// Payload, when set, is the fresh rendering the frontend should apply
	// to the message the user interacted with.
	Payload *gateway.Payload `json:"payload,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventInteractions
type EventInteractions interface {
	EventByID(eventID string) (*models.Event, bool)
	Set(ev *models.Event) error
	Delete(ev *models.Event) error
	Reconcile(ev *models.Event, skipMessageID string)
	Render(ev *models.Event) gateway.Payload
	Expire(channelID, messageID string)
}

func New(log *slog.Logger, events EventInteractions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.interaction.New"

		log = log.With(slog.String("op", op))

		var req InteractionRequest

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

		parts := strings.Split(req.CustomID, ":")
		action := parts[0]

		if action != posts.CustomIDAttendance && action != posts.CustomIDEdit && action != posts.CustomIDDelete {
			log.Info("ignoring unrelated interaction", slog.String("custom_id", req.CustomID))
			render.JSON(w, r, InteractionResponse{Response: response.OK()})
			return
		}

		if len(parts) < 2 {
			log.Error("malformed custom id", slog.String("custom_id", req.CustomID))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("malformed custom id"))
			return
		}

		event, ok := events.EventByID(parts[1])
		if !ok {
			// The event was retired while the post still had live
			// buttons; neuter them instead of erroring.
			log.Info("interaction for retired event", slog.String("custom_id", req.CustomID))
			events.Expire(req.ChannelID, req.MessageID)
			render.Status(r, http.StatusGone)
			render.JSON(w, r, response.Error("event is over"))
			return
		}

		log = log.With(slog.String("event_id", event.ID))

		switch action {
		case posts.CustomIDAttendance:
			handleAttendance(w, r, log, events, event, &req, parts)
		case posts.CustomIDEdit:
			handleEdit(w, r, log, event, &req)
		case posts.CustomIDDelete:
			handleDelete(w, r, log, events, event, &req)
		}
	}
}

func handleAttendance(w http.ResponseWriter, r *http.Request, log *slog.Logger, events EventInteractions, event *models.Event, req *InteractionRequest, parts []string) {
	if len(parts) < 3 {
		log.Error("attendance interaction without token", slog.String("custom_id", req.CustomID))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("malformed custom id"))
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.UserID
	}

	if !attendance.Toggle(event, req.UserID, displayName, parts[2]) {
		log.Info("unknown response token", slog.String("token", parts[2]))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown response token"))
		return
	}

	if err := events.Set(event); err != nil {
		log.Error("failed to persist attendance change", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to record response"))
		return
	}

	// Every other live post gets refreshed; the post the user pressed is
	// updated inline by the frontend from the returned payload.
	events.Reconcile(event, req.MessageID)

	payload := events.Render(event)

	log.Info("attendance updated", slog.String("user_id", req.UserID))

	render.JSON(w, r, InteractionResponse{
		Response: response.OK(),
		Payload:  &payload,
	})
}

func handleEdit(w http.ResponseWriter, r *http.Request, log *slog.Logger, event *models.Event, req *InteractionRequest) {
	if event.OrganizerID != req.UserID && !req.IsStaff {
		log.Info("edit denied", slog.String("user_id", req.UserID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("only the organizer or staff may edit this event"))
		return
	}

	// The edit wizard itself runs through the wizard endpoint; the button
	// just acknowledges that a session may begin.
	render.JSON(w, r, InteractionResponse{Response: response.OK()})
}

func handleDelete(w http.ResponseWriter, r *http.Request, log *slog.Logger, events EventInteractions, event *models.Event, req *InteractionRequest) {
	if event.OrganizerID != req.UserID && !req.IsStaff {
		log.Info("delete denied", slog.String("user_id", req.UserID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("only the organizer or staff may delete this event"))
		return
	}

	if err := events.Delete(event); err != nil {
		log.Error("failed to delete event", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete event"))
		return
	}

	log.Info("event deleted via button", slog.String("user_id", req.UserID))

	render.JSON(w, r, InteractionResponse{Response: response.OK()})
}
