package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventHerald/internal/gateway"
	gwmocks "eventHerald/internal/gateway/mocks"
	"eventHerald/internal/lib/logger/handlers/slogdiscard"
	"eventHerald/internal/models"
	"eventHerald/internal/posts"
	"eventHerald/internal/recurrence"
	"eventHerald/internal/scheduler/mocks"
)

func newTestManager(t *testing.T) (*Manager, *mocks.EventStore, *gwmocks.Gateway) {
	t.Helper()

	store := mocks.NewEventStore(t)
	gw := gwmocks.NewGateway(t)
	log := slogdiscard.NewDiscardLogger()

	m := NewManager(log, store, gw, posts.NewSynchronizer(log, gw), map[string]string{
		"g1": "info-chan",
	})

	return m, store, gw
}

func testEvent() *models.Event {
	return &models.Event{
		ID:          "evt-1",
		GuildID:     "g1",
		ChannelID:   "chan-1",
		OrganizerID: "organizer",
		Name:        "Game Night",
		Timezone:    "UTC",
		AttendanceOptions: []models.AttendanceOption{
			{Token: "✅", Label: "Attending"},
		},
		Posts:     map[string]models.Post{},
		Attendees: map[string]*models.Attendee{},
	}
}

func TestTickAnnouncesOnlyOnce(t *testing.T) {
	t.Parallel()

	m, store, gw := newTestManager(t)

	now := time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)

	ev := testEvent()
	ev.Start = now.Add(-5 * time.Minute)
	ev.DurationMinutes = 60

	store.On("UpsertEvent", ev).Return(nil)
	gw.On("SendMessage", "chan-1", mock.Anything).Return("ann-1", nil).Once()

	require.NoError(t, m.Set(ev))

	m.Tick(now)
	m.Tick(now.Add(time.Minute))

	assert.True(t, ev.Announced())
	gw.AssertNumberOfCalls(t, "SendMessage", 1)
}

func TestTickRetiresOneShotEvent(t *testing.T) {
	t.Parallel()

	m, store, gw := newTestManager(t)

	now := time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)

	ev := testEvent()
	ev.Start = now.Add(-time.Minute)
	ev.DurationMinutes = 0
	ev.Role = &models.EventRole{RoleID: "role-1", AutoDelete: true}
	ev.Posts = map[string]models.Post{
		"m-main": {ChannelID: "chan-1"},
		"m-info": {ChannelID: "info-chan"},
	}

	store.On("UpsertEvent", ev).Return(nil).Once() // the Set flush
	gw.On("SendMessage", "chan-1", mock.Anything).Return("ann-1", nil).Once()
	gw.On("DeleteMessage", "info-chan", "m-info").Return(nil).Once()
	gw.On("EditMessage", "chan-1", "m-main", mock.Anything).Return(nil).Once()
	store.On("DeleteEvent", "evt-1").Return(nil).Once()
	gw.On("DeleteRole", "g1", "role-1").Return(nil).Once()

	require.NoError(t, m.Set(ev))

	m.Tick(now)

	_, ok := m.Event("g1", "evt-1")
	assert.False(t, ok)
	assert.NotContains(t, ev.Posts, "m-info")

	// The prune queues drained on the first flush; another tick must not
	// delete anything again.
	m.Tick(now.Add(time.Minute))

	store.AssertNumberOfCalls(t, "DeleteEvent", 1)
	gw.AssertNumberOfCalls(t, "DeleteRole", 1)
}

func TestTickAdvancesRecurringEvent(t *testing.T) {
	t.Parallel()

	m, store, gw := newTestManager(t)

	now := time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)
	count := 2

	ev := testEvent()
	ev.Start = now.Add(-time.Minute)
	ev.DurationMinutes = 0
	ev.Recurrence = &recurrence.Rule{Kind: recurrence.Daily, Interval: 1, Count: &count}
	ev.Posts = map[string]models.Post{"m-old": {ChannelID: "chan-1"}}
	ev.Attendees = map[string]*models.Attendee{
		"u1": {DisplayName: "Alice", Token: "✅"},
	}

	store.On("UpsertEvent", ev).Return(nil)
	gw.On("SendMessage", "chan-1", mock.Anything).Return("ann-1", nil).Once()
	gw.On("DeleteMessage", "chan-1", "m-old").Return(nil).Once()
	gw.On("SendMessage", "chan-1", mock.Anything).Return("m-new-1", nil).Once()
	gw.On("SendMessage", "info-chan", mock.Anything).Return("m-new-2", nil).Once()

	require.NoError(t, m.Set(ev))

	m.Tick(now)

	wantStart := now.Add(-time.Minute).Add(24 * time.Hour)
	assert.Equal(t, wantStart, ev.Start)
	require.NotNil(t, ev.Recurrence.Count)
	assert.Equal(t, 1, *ev.Recurrence.Count)

	assert.NotContains(t, ev.Posts, "m-old")
	assert.Contains(t, ev.Posts, "m-new-1")
	assert.Contains(t, ev.Posts, "m-new-2")
	assert.Empty(t, ev.Attendees)
	assert.False(t, ev.Announced())

	_, ok := m.Event("g1", "evt-1")
	assert.True(t, ok, "recurring event stays live")
}

func TestTickRetiresExhaustedRecurrence(t *testing.T) {
	t.Parallel()

	m, store, gw := newTestManager(t)

	now := time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC)
	until := now.Add(time.Hour)

	ev := testEvent()
	ev.Start = now.Add(-time.Minute)
	ev.DurationMinutes = 0
	ev.Recurrence = &recurrence.Rule{Kind: recurrence.Daily, Interval: 1, Until: &until}
	ev.Posts = map[string]models.Post{"m-1": {ChannelID: "chan-1"}}

	store.On("UpsertEvent", ev).Return(nil).Once()
	gw.On("SendMessage", "chan-1", mock.Anything).Return("ann-1", nil).Once()
	gw.On("EditMessage", "chan-1", "m-1", mock.Anything).Return(nil).Once()
	store.On("DeleteEvent", "evt-1").Return(nil).Once()

	require.NoError(t, m.Set(ev))

	m.Tick(now)

	_, ok := m.Event("g1", "evt-1")
	assert.False(t, ok)
}

func TestSetIsIdempotent(t *testing.T) {
	t.Parallel()

	m, store, _ := newTestManager(t)

	ev := testEvent()
	ev.Start = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

	store.On("UpsertEvent", ev).Return(nil)

	require.NoError(t, m.Set(ev))
	require.NoError(t, m.Set(ev))

	assert.Len(t, m.GuildEvents("g1"), 1)
	store.AssertNumberOfCalls(t, "UpsertEvent", 2)
}

func TestSetRetriesFailedUpsertOnNextTick(t *testing.T) {
	t.Parallel()

	m, store, _ := newTestManager(t)

	ev := testEvent()
	ev.Start = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

	store.On("UpsertEvent", ev).Return(errors.New("connection refused")).Once()
	store.On("UpsertEvent", ev).Return(nil).Once()

	require.Error(t, m.Set(ev))

	_, ok := m.Event("g1", "evt-1")
	assert.True(t, ok, "event stays live despite failed flush")

	m.Tick(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	store.AssertNumberOfCalls(t, "UpsertEvent", 2)
}

func TestDeleteTearsDownAndPrunes(t *testing.T) {
	t.Parallel()

	m, store, gw := newTestManager(t)

	ev := testEvent()
	ev.Start = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	ev.Role = &models.EventRole{RoleID: "role-1", AutoDelete: true}
	ev.Posts = map[string]models.Post{"m-1": {ChannelID: "chan-1"}}

	store.On("UpsertEvent", ev).Return(nil).Once()
	require.NoError(t, m.Set(ev))

	gw.On("DeleteMessage", "chan-1", "m-1").Return(nil).Once()
	store.On("DeleteEvent", "evt-1").Return(nil).Once()
	gw.On("DeleteRole", "g1", "role-1").Return(nil).Once()

	require.NoError(t, m.Delete(ev))

	_, ok := m.Event("g1", "evt-1")
	assert.False(t, ok)
	assert.Empty(t, ev.Posts)
}

func TestLoadStateSkipsVanishedChannel(t *testing.T) {
	t.Parallel()

	m, store, gw := newTestManager(t)

	evGood := testEvent()
	evGood.Start = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	evGood.Role = &models.EventRole{RoleID: "role-gone", AutoDelete: true}
	evGood.Attendees = map[string]*models.Attendee{
		"u1": {Token: "✅"},
		"u2": {Token: "✅"},
	}

	evBad := testEvent()
	evBad.ID = "evt-2"
	evBad.ChannelID = "chan-gone"

	store.On("LoadEvents").Return([]*models.Event{evGood, evBad}, nil)
	gw.On("FetchChannel", "chan-1").Return(&gateway.Channel{ID: "chan-1"}, nil)
	gw.On("FetchChannel", "chan-gone").Return(nil, gateway.ErrNotFound)
	gw.On("FetchRole", "g1", "role-gone").Return(nil, gateway.ErrNotFound)
	gw.On("FetchMember", "g1", "u1").Return(&gateway.Member{ID: "u1", DisplayName: "Alice"}, nil)
	gw.On("FetchMember", "g1", "u2").Return(nil, errors.New("timeout"))

	require.NoError(t, m.LoadState())

	_, ok := m.Event("g1", "evt-1")
	assert.True(t, ok)
	_, ok = m.Event("g1", "evt-2")
	assert.False(t, ok, "event in a vanished channel is not loaded")

	assert.Nil(t, evGood.Role, "vanished role reference is dropped")
	assert.Equal(t, "Alice", evGood.Attendees["u1"].DisplayName)
	assert.Equal(t, "u2", evGood.Attendees["u2"].DisplayName, "unresolvable member falls back to the id")
}

func TestLoadStateDropsPostsInVanishedChannels(t *testing.T) {
	t.Parallel()

	m, store, gw := newTestManager(t)

	ev := testEvent()
	ev.Start = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	ev.Posts = map[string]models.Post{
		"m-own":  {ChannelID: "chan-1"},
		"m-info": {ChannelID: "chan-vanished"},
	}

	store.On("LoadEvents").Return([]*models.Event{ev}, nil)
	gw.On("FetchChannel", "chan-1").Return(&gateway.Channel{ID: "chan-1"}, nil)
	gw.On("FetchChannel", "chan-vanished").Return(nil, gateway.ErrNotFound)

	require.NoError(t, m.LoadState())

	_, ok := m.Event("g1", "evt-1")
	require.True(t, ok)
	assert.Contains(t, ev.Posts, "m-own")
	assert.NotContains(t, ev.Posts, "m-info")
}

func TestStartStopIdempotent(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestManager(t)

	// Empty index: the loop's immediate tick touches neither store nor
	// gateway, so the mocks stay silent.
	m.Start()
	m.Start()
	m.Stop()
	m.Stop()

	m.Start()
	m.Stop()
}

func TestLoadStateStoreFailure(t *testing.T) {
	t.Parallel()

	m, store, _ := newTestManager(t)

	store.On("LoadEvents").Return(nil, errors.New("connection refused"))

	assert.Error(t, m.LoadState())
}

func TestGuildEventsSortedByStart(t *testing.T) {
	t.Parallel()

	m, store, _ := newTestManager(t)

	store.On("UpsertEvent", mock.Anything).Return(nil)

	later := testEvent()
	later.ID = "evt-later"
	later.Start = time.Date(2024, 6, 2, 18, 0, 0, 0, time.UTC)

	sooner := testEvent()
	sooner.ID = "evt-sooner"
	sooner.Start = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

	require.NoError(t, m.Set(later))
	require.NoError(t, m.Set(sooner))

	events := m.GuildEvents("g1")
	require.Len(t, events, 2)
	assert.Equal(t, "evt-sooner", events[0].ID)
	assert.Equal(t, "evt-later", events[1].ID)
}
