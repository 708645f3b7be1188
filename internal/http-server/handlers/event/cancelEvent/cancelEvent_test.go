package cancelEvent

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventHerald/internal/http-server/handlers/event/cancelEvent/mocks"
	"eventHerald/internal/lib/logger/handlers/slogdiscard"
	"eventHerald/internal/models"
)

func newRequest(t *testing.T, guildID, eventID, body string) *http.Request {
	t.Helper()

	req, err := http.NewRequest("DELETE", "/guilds/"+guildID+"/events/"+eventID, bytes.NewBufferString(body))
	require.NoError(t, err)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("guildID", guildID)
	rctx.URLParams.Add("eventID", eventID)

	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func liveEvent() *models.Event {
	return &models.Event{
		ID:          "evt-1",
		GuildID:     "g1",
		OrganizerID: "u-organizer",
		Name:        "Game Night",
	}
}

func TestCancelEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.EventCanceller)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "Organizer cancels",
			requestBody: `{"actor_id": "u-organizer"}`,
			mockSetup: func(m *mocks.EventCanceller) {
				ev := liveEvent()
				m.On("Event", "g1", "evt-1").Return(ev, true)
				m.On("Delete", ev).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:        "Staff cancels someone else's event",
			requestBody: `{"actor_id": "u-mod", "actor_is_staff": true}`,
			mockSetup: func(m *mocks.EventCanceller) {
				ev := liveEvent()
				m.On("Event", "g1", "evt-1").Return(ev, true)
				m.On("Delete", ev).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:        "Bystander denied",
			requestBody: `{"actor_id": "u-random"}`,
			mockSetup: func(m *mocks.EventCanceller) {
				m.On("Event", "g1", "evt-1").Return(liveEvent(), true)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"only the organizer or staff may cancel this event"}`,
		},
		{
			name:        "Event not found",
			requestBody: `{"actor_id": "u-organizer"}`,
			mockSetup: func(m *mocks.EventCanceller) {
				m.On("Event", "g1", "evt-1").Return(nil, false)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:        "Delete failure",
			requestBody: `{"actor_id": "u-organizer"}`,
			mockSetup: func(m *mocks.EventCanceller) {
				ev := liveEvent()
				m.On("Event", "g1", "evt-1").Return(ev, true)
				m.On("Delete", ev).Return(errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to cancel event"}`,
		},
		{
			name:           "Missing actor",
			requestBody:    `{}`,
			mockSetup:      func(m *mocks.EventCanceller) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON",
			requestBody:    `not json`,
			mockSetup:      func(m *mocks.EventCanceller) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCanceller := mocks.NewEventCanceller(t)
			tc.mockSetup(mockCanceller)

			handler := New(logger, mockCanceller)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, newRequest(t, "g1", "evt-1", tc.requestBody))

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}
