package attendance

import "eventHerald/internal/models"

// Toggle applies a user's response selection to the event, keeping at most
// one active response per user:
//
//   - selecting the token they already hold clears their response,
//   - selecting a different token replaces it,
//   - selecting with no current response records it.
//
// It reports whether the event changed. The caller is responsible for
// persisting the event and reconciling its posts afterwards.
func Toggle(event *models.Event, userID, displayName, token string) bool {
	if _, ok := event.Option(token); !ok {
		return false
	}

	if event.Attendees == nil {
		event.Attendees = make(map[string]*models.Attendee)
	}

	if current, ok := event.Attendees[userID]; ok {
		if current.Token == token {
			delete(event.Attendees, userID)
			return true
		}
		current.Token = token
		current.DisplayName = displayName
		return true
	}

	event.Attendees[userID] = &models.Attendee{
		DisplayName: displayName,
		Token:       token,
	}

	return true
}
