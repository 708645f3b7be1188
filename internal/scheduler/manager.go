package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"eventHerald/internal/gateway"
	"eventHerald/internal/lib/logger/sl"
	"eventHerald/internal/models"
	"eventHerald/internal/posts"
	"eventHerald/internal/recurrence"
)

// EventStore is the durable side of the scheduler. All writes are
// idempotent; a failed write is retried implicitly because every tick
// flushes the full live state again.
//
//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventStore
type EventStore interface {
	LoadEvents() ([]*models.Event, error)
	UpsertEvent(e *models.Event) error
	DeleteEvent(eventID string) error
}

type pendingRole struct {
	GuildID string
	RoleID  string
}

// Manager owns the live per-guild event index and the tick loop that
// advances event state. The index is guarded by a single mutex; the tick
// loop itself always runs on one goroutine, so ticks never overlap.
type Manager struct {
	log   *slog.Logger
	store EventStore
	gw    gateway.Gateway
	sync  *posts.Synchronizer

	// infoChannels maps a guild to its "upcoming events" channel. Posts
	// there are deleted on finish instead of edited, so the channel only
	// ever shows genuinely upcoming items.
	infoChannels map[string]string

	mu     sync.Mutex
	guilds map[string]map[string]*models.Event

	eventsPendingPrune map[string]*models.Event
	rolesPendingPrune  map[string]pendingRole

	stopCh chan struct{}
}

func NewManager(log *slog.Logger, store EventStore, gw gateway.Gateway, syncer *posts.Synchronizer, infoChannels map[string]string) *Manager {
	if infoChannels == nil {
		infoChannels = make(map[string]string)
	}
	return &Manager{
		log:                log,
		store:              store,
		gw:                 gw,
		sync:               syncer,
		infoChannels:       infoChannels,
		guilds:             make(map[string]map[string]*models.Event),
		eventsPendingPrune: make(map[string]*models.Event),
		rolesPendingPrune:  make(map[string]pendingRole),
	}
}

// LoadState rehydrates the index from the store. A single event that no
// longer resolves against the gateway is logged and skipped or degraded;
// it never aborts loading the rest.
func (m *Manager) LoadState() error {
	const op = "scheduler.Manager.LoadState"

	events, err := m.store.LoadEvents()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, ev := range events {
		if _, err := m.gw.FetchChannel(ev.ChannelID); err != nil {
			if errors.Is(err, gateway.ErrNotFound) {
				m.log.Warn("event channel no longer exists, skipping event",
					slog.String("event_id", ev.ID),
					slog.String("channel_id", ev.ChannelID),
				)
				continue
			}
			m.log.Error("failed to resolve event channel, loading anyway",
				slog.String("event_id", ev.ID),
				sl.Err(err),
			)
		}

		if ev.Role != nil {
			if _, err := m.gw.FetchRole(ev.GuildID, ev.Role.RoleID); errors.Is(err, gateway.ErrNotFound) {
				m.log.Warn("event role no longer exists, dropping role reference",
					slog.String("event_id", ev.ID),
					slog.String("role_id", ev.Role.RoleID),
				)
				ev.Role = nil
			}
		}

		// Posts in channels that vanished while we were down are dropped
		// here; a post whose message is gone but whose channel survives is
		// dropped lazily on the first Reconcile that hits ErrNotFound.
		for messageID, post := range ev.Posts {
			if post.ChannelID == ev.ChannelID {
				continue
			}
			if _, err := m.gw.FetchChannel(post.ChannelID); errors.Is(err, gateway.ErrNotFound) {
				m.log.Warn("post channel no longer exists, dropping post",
					slog.String("event_id", ev.ID),
					slog.String("message_id", messageID),
					slog.String("channel_id", post.ChannelID),
				)
				ev.RemovePost(messageID)
			}
		}

		for userID, attendee := range ev.Attendees {
			member, err := m.gw.FetchMember(ev.GuildID, userID)
			if err != nil {
				attendee.DisplayName = userID
				continue
			}
			attendee.DisplayName = member.DisplayName
		}

		m.indexLocked(ev)
		loaded++
	}

	m.log.Info("event state loaded", slog.Int("events", loaded))

	return nil
}

// Set upserts the event into the live index and flushes state. Safe to
// call repeatedly with identical content.
func (m *Manager) Set(ev *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.indexLocked(ev)

	return m.saveStateLocked()
}

// Delete removes the event from the live index, tears down its posts and
// schedules it (plus its auto-delete role) for storage deletion on the
// flush that follows immediately.
func (m *Manager) Delete(ev *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sync.Teardown(ev)

	if events, ok := m.guilds[ev.GuildID]; ok {
		delete(events, ev.ID)
	}

	m.eventsPendingPrune[ev.ID] = ev
	if ev.Role != nil && ev.Role.AutoDelete {
		m.rolesPendingPrune[ev.Role.RoleID] = pendingRole{GuildID: ev.GuildID, RoleID: ev.Role.RoleID}
	}

	return m.saveStateLocked()
}

// Event looks up one live event.
func (m *Manager) Event(guildID, eventID string) (*models.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.guilds[guildID][eventID]
	return ev, ok
}

// EventByID looks up a live event by id alone, used by interaction
// handlers that only know the id embedded in a button's custom id.
func (m *Manager) EventByID(eventID string) (*models.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, events := range m.guilds {
		if ev, ok := events[eventID]; ok {
			return ev, true
		}
	}
	return nil, false
}

// GuildEvents returns a guild's live events ordered by start time.
func (m *Manager) GuildEvents(guildID string) []*models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := make([]*models.Event, 0, len(m.guilds[guildID]))
	for _, ev := range m.guilds[guildID] {
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	return events
}

// Reconcile pushes the event's current rendering to its live posts,
// skipping the post that triggered the update.
func (m *Manager) Reconcile(ev *models.Event, skipMessageID string) {
	status := posts.StatusUpcoming
	if ev.Announced() {
		status = posts.StatusOngoing
	}
	m.sync.Reconcile(ev, skipMessageID, status)
}

// Publish creates the event's initial posts in its own channel and, when
// configured, the guild's info channel.
func (m *Manager) Publish(ev *models.Event) {
	m.sync.Publish(ev, m.postChannels(ev)...)
}

func (m *Manager) postChannels(ev *models.Event) []string {
	channels := []string{ev.ChannelID}
	if info := m.infoChannels[ev.GuildID]; info != "" && info != ev.ChannelID {
		channels = append(channels, info)
	}
	return channels
}

// Render returns the event's current announcement payload, for callers
// updating one post inline.
func (m *Manager) Render(ev *models.Event) gateway.Payload {
	status := posts.StatusUpcoming
	if ev.Announced() {
		status = posts.StatusOngoing
	}
	return posts.Render(ev, status)
}

// Expire disables the buttons of a post belonging to an event that has
// already been retired.
func (m *Manager) Expire(channelID, messageID string) {
	m.sync.Expire(channelID, messageID)
}

// Tick runs one reconciliation pass over all live events and always
// finishes with a state flush so the prune queues drain promptly. It
// never panics out; one bad event cannot stop the others.
func (m *Manager) Tick(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for guildID, events := range m.guilds {
		infoChannelID := m.infoChannels[guildID]
		for _, ev := range events {
			m.processEvent(now, events, ev, infoChannelID)
		}
	}

	m.saveStateLocked()
}

func (m *Manager) processEvent(now time.Time, events map[string]*models.Event, ev *models.Event, infoChannelID string) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("panic while processing event",
				slog.String("event_id", ev.ID),
				slog.Any("panic", r),
			)
		}
	}()

	if now.Before(ev.Start) {
		return
	}

	// scheduled -> announced, exactly once per occurrence.
	if !ev.Announced() {
		ev.MarkAnnounced()
		m.announce(ev)
	}

	finished := ev.DurationMinutes == 0 || !now.Before(ev.End())
	if !finished {
		m.sync.Reconcile(ev, "", posts.StatusOngoing)
		return
	}

	if ev.Recurrence != nil {
		next, rule, ok := ev.Recurrence.Next(ev.Start, ev.Location())
		if ok {
			m.recur(ev, next, rule)
			return
		}
	}

	m.retire(events, ev, infoChannelID)
}

// recur advances the same event in place to its next occurrence. Posts
// are torn down and freshly created because the new rendering (new time,
// reset attendance) starts a new engagement cycle.
func (m *Manager) recur(ev *models.Event, next time.Time, rule recurrence.Rule) {
	m.sync.Teardown(ev)

	ev.Start = next
	ev.Recurrence = &rule
	ev.ClearAttendees()
	ev.ResetAnnounced()

	m.sync.Publish(ev, m.postChannels(ev)...)

	m.log.Info("event recurred",
		slog.String("event_id", ev.ID),
		slog.Time("next_start", ev.Start),
	)
}

func (m *Manager) retire(events map[string]*models.Event, ev *models.Event, infoChannelID string) {
	m.sync.Finish(ev, infoChannelID)

	delete(events, ev.ID)
	m.eventsPendingPrune[ev.ID] = ev
	if ev.Role != nil && ev.Role.AutoDelete {
		m.rolesPendingPrune[ev.Role.RoleID] = pendingRole{GuildID: ev.GuildID, RoleID: ev.Role.RoleID}
	}

	m.log.Info("event retired", slog.String("event_id", ev.ID))
}

func (m *Manager) announce(ev *models.Event) {
	content := fmt.Sprintf("the event **%s** is starting!", ev.Name)
	if ev.Role != nil {
		content = fmt.Sprintf("<@&%s>: %s", ev.Role.RoleID, content)
	}

	if _, err := m.gw.SendMessage(ev.ChannelID, gateway.Payload{Content: content}); err != nil {
		m.log.Error("failed to send starting announcement",
			slog.String("event_id", ev.ID),
			sl.Err(err),
		)
	}
}

// saveStateLocked drains the prune queues (one deletion attempt each,
// failures logged and dropped) and upserts every live event. Upsert
// failures are logged only; the next tick flushes everything again.
func (m *Manager) saveStateLocked() error {
	var firstErr error

	for id := range m.eventsPendingPrune {
		if err := m.store.DeleteEvent(id); err != nil {
			m.log.Error("failed to delete retired event",
				slog.String("event_id", id),
				sl.Err(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
		delete(m.eventsPendingPrune, id)
	}

	for roleID, pr := range m.rolesPendingPrune {
		if err := m.gw.DeleteRole(pr.GuildID, roleID); err != nil && !errors.Is(err, gateway.ErrNotFound) {
			m.log.Error("failed to delete event role",
				slog.String("role_id", roleID),
				sl.Err(err),
			)
		}
		delete(m.rolesPendingPrune, roleID)
	}

	for _, events := range m.guilds {
		for _, ev := range events {
			if err := m.store.UpsertEvent(ev); err != nil {
				m.log.Error("failed to persist event",
					slog.String("event_id", ev.ID),
					sl.Err(err),
				)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}

	return firstErr
}

func (m *Manager) indexLocked(ev *models.Event) {
	events, ok := m.guilds[ev.GuildID]
	if !ok {
		events = make(map[string]*models.Event)
		m.guilds[ev.GuildID] = events
	}
	events[ev.ID] = ev
}
