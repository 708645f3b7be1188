package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventHerald/internal/models"
)

// Step names one stage of the create/edit conversation.
type Step string

const (
	StepName              Step = "name"
	StepDescription       Step = "description"
	StepStart             Step = "start"
	StepDuration          Step = "duration"
	StepRecurrence        Step = "recurrence"
	StepAttendanceOptions Step = "attendanceOptions"
	StepRole              Step = "role"
	StepVerify            Step = "verify"
)

type OutcomeKind int

const (
	// OutcomeContinue advances to Outcome.Step.
	OutcomeContinue OutcomeKind = iota
	// OutcomeRetry keeps the current step; Outcome.Reason says why.
	OutcomeRetry
	// OutcomeCancelled aborts the session, discarding the draft.
	OutcomeCancelled
	// OutcomeDone delivers the completed event in Outcome.Event.
	OutcomeDone
)

type Outcome struct {
	Kind   OutcomeKind
	Step   Step
	Reason string
	Event  *models.Event
}

// Session is one in-progress conversation. Each Handle call consumes one
// user reply and either advances the step, asks again, cancels, or
// completes with a fully validated event draft.
type Session struct {
	Step  Step
	Draft *models.Event
}

// New starts a creation session with a fresh draft.
func New(guildID, channelID, organizerID string) *Session {
	return &Session{
		Step: StepName,
		Draft: &models.Event{
			ID:          uuid.NewString(),
			GuildID:     guildID,
			ChannelID:   channelID,
			OrganizerID: organizerID,
			Timezone:    "UTC",
			Posts:       make(map[string]models.Post),
			Attendees:   make(map[string]*models.Attendee),
		},
	}
}

// Edit starts a session over a copy of an existing event, so an abandoned
// edit never dirties the live aggregate.
func Edit(ev *models.Event) *Session {
	draft := *ev
	draft.AttendanceOptions = append([]models.AttendanceOption(nil), ev.AttendanceOptions...)
	if ev.Recurrence != nil {
		rule := *ev.Recurrence
		draft.Recurrence = &rule
	}

	return &Session{
		Step:  StepName,
		Draft: &draft,
	}
}

// Handle consumes one reply. "cancel" aborts from any step.
func (s *Session) Handle(reply string) Outcome {
	reply = strings.TrimSpace(reply)

	if strings.EqualFold(reply, "cancel") {
		return Outcome{Kind: OutcomeCancelled}
	}

	switch s.Step {
	case StepName:
		return s.handleName(reply)
	case StepDescription:
		return s.handleDescription(reply)
	case StepStart:
		return s.handleStart(reply)
	case StepDuration:
		return s.handleDuration(reply)
	case StepRecurrence:
		return s.handleRecurrence(reply)
	case StepAttendanceOptions:
		return s.handleAttendanceOptions(reply)
	case StepRole:
		return s.handleRole(reply)
	case StepVerify:
		return s.handleVerify(reply)
	default:
		return Outcome{Kind: OutcomeCancelled}
	}
}

func (s *Session) advance(next Step) Outcome {
	s.Step = next
	return Outcome{Kind: OutcomeContinue, Step: next}
}

func (s *Session) retry(reason string) Outcome {
	return Outcome{Kind: OutcomeRetry, Step: s.Step, Reason: reason}
}

func (s *Session) handleName(reply string) Outcome {
	if reply == "" {
		return s.retry("the event needs a name")
	}
	s.Draft.Name = reply
	return s.advance(StepDescription)
}

func (s *Session) handleDescription(reply string) Outcome {
	if !strings.EqualFold(reply, "skip") {
		s.Draft.Description = reply
	}
	return s.advance(StepStart)
}

// handleStart parses "2006-01-02 15:04 Zone". Date parsing is a fixed
// layout; anything fancier is out of scope.
func (s *Session) handleStart(reply string) Outcome {
	fields := strings.Fields(reply)
	if len(fields) < 2 {
		return s.retry("expected a date and time like 2024-03-01 19:00 Europe/Berlin")
	}

	zone := "UTC"
	if len(fields) >= 3 {
		zone = fields[2]
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return s.retry(fmt.Sprintf("unknown timezone %q", zone))
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", fields[0]+" "+fields[1], loc)
	if err != nil {
		return s.retry("could not understand that date and time")
	}

	s.Draft.Timezone = zone
	s.Draft.Start = start.UTC()
	return s.advance(StepDuration)
}

func (s *Session) handleDuration(reply string) Outcome {
	minutes, err := strconv.Atoi(reply)
	if err != nil || minutes < 0 {
		return s.retry("duration must be a whole number of minutes, 0 for an instantaneous event")
	}
	s.Draft.DurationMinutes = minutes
	return s.advance(StepRecurrence)
}

func (s *Session) handleRecurrence(reply string) Outcome {
	if strings.EqualFold(reply, "none") || strings.EqualFold(reply, "skip") {
		s.Draft.Recurrence = nil
		return s.advance(StepAttendanceOptions)
	}

	rule, err := ParseRule(reply)
	if err != nil {
		return s.retry(err.Error())
	}
	if err := rule.Validate(); err != nil {
		return s.retry(err.Error())
	}

	s.Draft.Recurrence = &rule
	return s.advance(StepAttendanceOptions)
}

// handleAttendanceOptions reads comma-separated "token label" pairs, e.g.
// "✅ Attending, ❌ Declined, ❔ Maybe". Token uniqueness is enforced here
// so a malformed option set never reaches the scheduler.
func (s *Session) handleAttendanceOptions(reply string) Outcome {
	var options []models.AttendanceOption

	if strings.EqualFold(reply, "default") {
		options = []models.AttendanceOption{
			{Token: "✅", Label: "Attending"},
			{Token: "❌", Label: "Declined"},
			{Token: "❔", Label: "Maybe"},
		}
	} else {
		seen := make(map[string]bool)
		for _, part := range strings.Split(reply, ",") {
			fields := strings.Fields(strings.TrimSpace(part))
			if len(fields) < 2 {
				return s.retry("each option needs a token and a label, like \"✅ Attending\"")
			}
			token := fields[0]
			if seen[token] {
				return s.retry(fmt.Sprintf("duplicate response token %q", token))
			}
			seen[token] = true
			options = append(options, models.AttendanceOption{
				Token: token,
				Label: strings.Join(fields[1:], " "),
			})
		}
		if len(options) == 0 {
			return s.retry("the event needs at least one attendance option")
		}
	}

	s.Draft.AttendanceOptions = options
	return s.advance(StepRole)
}

// handleRole reads "none", a role id, or "<role id> autodelete".
func (s *Session) handleRole(reply string) Outcome {
	if strings.EqualFold(reply, "none") || strings.EqualFold(reply, "skip") {
		s.Draft.Role = nil
		return s.advance(StepVerify)
	}

	fields := strings.Fields(reply)
	if len(fields) == 0 {
		return s.retry("expected a role id, optionally followed by \"autodelete\", or \"none\"")
	}

	role := &models.EventRole{RoleID: fields[0]}
	if len(fields) > 1 {
		if !strings.EqualFold(fields[1], "autodelete") {
			return s.retry("expected a role id, optionally followed by \"autodelete\"")
		}
		role.AutoDelete = true
	}

	s.Draft.Role = role
	return s.advance(StepVerify)
}

func (s *Session) handleVerify(reply string) Outcome {
	switch strings.ToLower(reply) {
	case "confirm", "yes", "y":
		return Outcome{Kind: OutcomeDone, Event: s.Draft}
	default:
		return s.retry("reply \"confirm\" to save the event or \"cancel\" to abort")
	}
}

// Prompt returns the question for the session's current step. Copy is
// deliberately plain.
func (s *Session) Prompt() string {
	switch s.Step {
	case StepName:
		return "What is the event called?"
	case StepDescription:
		return "Describe the event, or reply \"skip\"."
	case StepStart:
		return "When does it start? (2006-01-02 15:04 Zone)"
	case StepDuration:
		return "How long does it run, in minutes? (0 for instantaneous)"
	case StepRecurrence:
		return "Does it repeat? (e.g. \"weekly on tue,thu x10\", or \"none\")"
	case StepAttendanceOptions:
		return "List attendance options (\"✅ Attending, ❌ Declined\") or reply \"default\"."
	case StepRole:
		return "Role id to associate (append \"autodelete\" to remove it afterwards), or \"none\"."
	case StepVerify:
		return "Reply \"confirm\" to save the event."
	default:
		return ""
	}
}
