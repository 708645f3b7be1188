package interaction

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventHerald/internal/gateway"
	"eventHerald/internal/http-server/handlers/interaction/mocks"
	"eventHerald/internal/lib/logger/handlers/slogdiscard"
	"eventHerald/internal/models"
)

func liveEvent() *models.Event {
	return &models.Event{
		ID:          "evt-1",
		GuildID:     "g1",
		ChannelID:   "chan-1",
		OrganizerID: "u-organizer",
		Name:        "Game Night",
		Timezone:    "UTC",
		AttendanceOptions: []models.AttendanceOption{
			{Token: "✅", Label: "Attending"},
		},
		Posts:     map[string]models.Post{},
		Attendees: map[string]*models.Attendee{},
	}
}

func TestInteractionHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.EventInteractions)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name: "Attendance toggle",
			requestBody: `{
				"user_id": "u1",
				"display_name": "Alice",
				"message_id": "m-1",
				"channel_id": "chan-1",
				"custom_id": "eventAttendance:evt-1:✅"
			}`,
			mockSetup: func(m *mocks.EventInteractions) {
				ev := liveEvent()
				m.On("EventByID", "evt-1").Return(ev, true)
				m.On("Set", ev).Return(nil)
				m.On("Reconcile", ev, "m-1").Return()
				m.On("Render", ev).Return(gateway.Payload{Title: "Game Night"})
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				var resp InteractionResponse
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				assert.Equal(t, "OK", resp.Status)
				require.NotNil(t, resp.Payload)
				assert.Equal(t, "Game Night", resp.Payload.Title)
			},
		},
		{
			name: "Attendance with unknown token",
			requestBody: `{
				"user_id": "u1",
				"message_id": "m-1",
				"channel_id": "chan-1",
				"custom_id": "eventAttendance:evt-1:🤷"
			}`,
			mockSetup: func(m *mocks.EventInteractions) {
				m.On("EventByID", "evt-1").Return(liveEvent(), true)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"unknown response token"}`,
		},
		{
			name: "Retired event expires the post",
			requestBody: `{
				"user_id": "u1",
				"message_id": "m-1",
				"channel_id": "chan-1",
				"custom_id": "eventAttendance:evt-gone:✅"
			}`,
			mockSetup: func(m *mocks.EventInteractions) {
				m.On("EventByID", "evt-gone").Return(nil, false)
				m.On("Expire", "chan-1", "m-1").Return()
			},
			expectedStatus: http.StatusGone,
			expectedBody:   `{"status":"Error","error":"event is over"}`,
		},
		{
			name: "Edit allowed for organizer",
			requestBody: `{
				"user_id": "u-organizer",
				"message_id": "m-1",
				"channel_id": "chan-1",
				"custom_id": "eventEdit:evt-1"
			}`,
			mockSetup: func(m *mocks.EventInteractions) {
				m.On("EventByID", "evt-1").Return(liveEvent(), true)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name: "Delete denied for bystander",
			requestBody: `{
				"user_id": "u-random",
				"message_id": "m-1",
				"channel_id": "chan-1",
				"custom_id": "eventDelete:evt-1"
			}`,
			mockSetup: func(m *mocks.EventInteractions) {
				m.On("EventByID", "evt-1").Return(liveEvent(), true)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"only the organizer or staff may delete this event"}`,
		},
		{
			name: "Delete allowed for staff",
			requestBody: `{
				"user_id": "u-random",
				"message_id": "m-1",
				"channel_id": "chan-1",
				"custom_id": "eventDelete:evt-1",
				"is_staff": true
			}`,
			mockSetup: func(m *mocks.EventInteractions) {
				ev := liveEvent()
				m.On("EventByID", "evt-1").Return(ev, true)
				m.On("Delete", ev).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name: "Delete store failure",
			requestBody: `{
				"user_id": "u-organizer",
				"message_id": "m-1",
				"channel_id": "chan-1",
				"custom_id": "eventDelete:evt-1"
			}`,
			mockSetup: func(m *mocks.EventInteractions) {
				ev := liveEvent()
				m.On("EventByID", "evt-1").Return(ev, true)
				m.On("Delete", ev).Return(errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to delete event"}`,
		},
		{
			name: "Unrelated custom id ignored",
			requestBody: `{
				"user_id": "u1",
				"message_id": "m-1",
				"channel_id": "chan-1",
				"custom_id": "someOtherFeature:xyz"
			}`,
			mockSetup:      func(m *mocks.EventInteractions) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name: "Malformed custom id",
			requestBody: `{
				"user_id": "u1",
				"message_id": "m-1",
				"channel_id": "chan-1",
				"custom_id": "eventAttendance"
			}`,
			mockSetup:      func(m *mocks.EventInteractions) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"malformed custom id"}`,
		},
		{
			name:           "Invalid JSON",
			requestBody:    `not json`,
			mockSetup:      func(m *mocks.EventInteractions) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name: "Missing user id",
			requestBody: `{
				"message_id": "m-1",
				"channel_id": "chan-1",
				"custom_id": "eventAttendance:evt-1:✅"
			}`,
			mockSetup:      func(m *mocks.EventInteractions) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"Error"`)
				assert.Contains(t, body, "UserID")
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockEvents := mocks.NewEventInteractions(t)
			tc.mockSetup(mockEvents)

			handler := New(logger, mockEvents)

			req, err := http.NewRequest("POST", "/interactions", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}

func TestAttendanceTogglePersistsResponse(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	mockEvents := mocks.NewEventInteractions(t)

	ev := liveEvent()
	mockEvents.On("EventByID", "evt-1").Return(ev, true)
	mockEvents.On("Set", ev).Return(nil)
	mockEvents.On("Reconcile", ev, "m-1").Return()
	mockEvents.On("Render", ev).Return(gateway.Payload{})

	handler := New(logger, mockEvents)

	body := `{
		"user_id": "u1",
		"display_name": "Alice",
		"message_id": "m-1",
		"channel_id": "chan-1",
		"custom_id": "eventAttendance:evt-1:✅"
	}`

	rr := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "/interactions", bytes.NewBufferString(body))
	require.NoError(t, err)
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, ev.Attendees, "u1")
	assert.Equal(t, "✅", ev.Attendees["u1"].Token)
	assert.Equal(t, "Alice", ev.Attendees["u1"].DisplayName)

	mockEvents.AssertCalled(t, "Reconcile", ev, "m-1")
}

func TestAttendanceFallsBackToUserID(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	mockEvents := mocks.NewEventInteractions(t)

	ev := liveEvent()
	mockEvents.On("EventByID", "evt-1").Return(ev, true)
	mockEvents.On("Set", ev).Return(nil)
	mockEvents.On("Reconcile", ev, "m-1").Return()
	mockEvents.On("Render", ev).Return(gateway.Payload{})

	handler := New(logger, mockEvents)

	body := `{
		"user_id": "u1",
		"message_id": "m-1",
		"channel_id": "chan-1",
		"custom_id": "eventAttendance:evt-1:✅"
	}`

	rr := httptest.NewRecorder()
	req, err := http.NewRequest("POST", "/interactions", bytes.NewBufferString(body))
	require.NoError(t, err)
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, ev.Attendees, "u1")
	assert.Equal(t, "u1", ev.Attendees["u1"].DisplayName)
}
