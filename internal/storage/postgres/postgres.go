package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"eventHerald/internal/config"
	"eventHerald/internal/models"
	"eventHerald/internal/recurrence"

	_ "github.com/lib/pq"
)

type Storage struct {
	DB *sql.DB
}

var schemas = []string{`
	CREATE TABLE IF NOT EXISTS event (
		event_id TEXT PRIMARY KEY,
		guild_id TEXT NOT NULL,
		channel_id TEXT NOT NULL,
		timezone TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		start_time TIMESTAMP WITH TIME ZONE NOT NULL,
		duration_minutes INTEGER NOT NULL,
		organizer_id TEXT NOT NULL,
		recurrence_json TEXT
	)`, `
	CREATE TABLE IF NOT EXISTS event_attendance_option (
		event_id TEXT NOT NULL,
		list_index INTEGER NOT NULL,
		response_token TEXT NOT NULL,
		label TEXT NOT NULL,
		PRIMARY KEY (event_id, response_token),
		UNIQUE (event_id, list_index)
	)`, `
	CREATE TABLE IF NOT EXISTS event_post (
		message_id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		channel_id TEXT NOT NULL
	)`, `
	CREATE TABLE IF NOT EXISTS event_member (
		event_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		response_token TEXT NOT NULL,
		PRIMARY KEY (event_id, user_id)
	)`, `
	CREATE TABLE IF NOT EXISTS event_role (
		event_id TEXT PRIMARY KEY,
		role_id TEXT NOT NULL,
		auto_delete BOOLEAN NOT NULL
	)`,
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	for _, schema := range schemas {
		if _, err = db.Exec(schema); err != nil {
			return nil, fmt.Errorf("failed to prepare tables: %w", err)
		}
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

// UpsertEvent writes the full aggregate in one transaction. The event row
// is upserted by id; child rows are replaced wholesale so that rows no
// longer present on the aggregate disappear. Calling it twice with the
// same event leaves the tables unchanged.
func (s *Storage) UpsertEvent(e *models.Event) error {
	var recurrenceJSON sql.NullString
	if e.Recurrence != nil {
		raw, err := json.Marshal(e.Recurrence)
		if err != nil {
			return fmt.Errorf("failed to encode recurrence: %w", err)
		}
		recurrenceJSON = sql.NullString{String: string(raw), Valid: true}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	eventQuery := `
		INSERT INTO event (event_id, guild_id, channel_id, timezone, name, description, start_time, duration_minutes, organizer_id, recurrence_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (event_id) DO UPDATE SET
			guild_id = excluded.guild_id,
			channel_id = excluded.channel_id,
			timezone = excluded.timezone,
			name = excluded.name,
			description = excluded.description,
			start_time = excluded.start_time,
			duration_minutes = excluded.duration_minutes,
			organizer_id = excluded.organizer_id,
			recurrence_json = excluded.recurrence_json`

	_, err = tx.Exec(eventQuery,
		e.ID, e.GuildID, e.ChannelID, e.Timezone, e.Name, e.Description,
		e.Start.UTC(), e.DurationMinutes, e.OrganizerID, recurrenceJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert event: %w", err)
	}

	for _, table := range []string{"event_attendance_option", "event_post", "event_member", "event_role"} {
		if _, err = tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE event_id = $1", table), e.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, opt := range e.AttendanceOptions {
		_, err = tx.Exec(
			`INSERT INTO event_attendance_option (event_id, list_index, response_token, label) VALUES ($1, $2, $3, $4)`,
			e.ID, i, opt.Token, opt.Label,
		)
		if err != nil {
			return fmt.Errorf("failed to insert attendance option: %w", err)
		}
	}

	for messageID, post := range e.Posts {
		_, err = tx.Exec(
			`INSERT INTO event_post (message_id, event_id, channel_id) VALUES ($1, $2, $3)`,
			messageID, e.ID, post.ChannelID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event post: %w", err)
		}
	}

	for userID, attendee := range e.Attendees {
		_, err = tx.Exec(
			`INSERT INTO event_member (event_id, user_id, response_token) VALUES ($1, $2, $3)`,
			e.ID, userID, attendee.Token,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event member: %w", err)
		}
	}

	if e.Role != nil {
		_, err = tx.Exec(
			`INSERT INTO event_role (event_id, role_id, auto_delete) VALUES ($1, $2, $3)`,
			e.ID, e.Role.RoleID, e.Role.AutoDelete,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event role: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteEvent removes a retired event's rows from all five tables.
func (s *Storage) DeleteEvent(eventID string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"event", "event_attendance_option", "event_post", "event_member", "event_role"} {
		if _, err = tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE event_id = $1", table), eventID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// LoadEvents rehydrates every stored event with its options, posts,
// members and role. Attendee display names are not stored; the caller
// resolves them through the gateway.
func (s *Storage) LoadEvents() ([]*models.Event, error) {
	rows, err := s.DB.Query(`
		SELECT event_id, guild_id, channel_id, timezone, name, description, start_time, duration_minutes, organizer_id, recurrence_json
		FROM event
		ORDER BY start_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		var recurrenceJSON sql.NullString

		err = rows.Scan(
			&e.ID, &e.GuildID, &e.ChannelID, &e.Timezone, &e.Name, &e.Description,
			&e.Start, &e.DurationMinutes, &e.OrganizerID, &recurrenceJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		e.Start = e.Start.UTC()

		if recurrenceJSON.Valid {
			var rule recurrence.Rule
			if err = json.Unmarshal([]byte(recurrenceJSON.String), &rule); err != nil {
				return nil, fmt.Errorf("failed to decode recurrence for event %s: %w", e.ID, err)
			}
			e.Recurrence = &rule
		}

		events = append(events, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	for _, e := range events {
		if err = s.loadChildren(e); err != nil {
			return nil, err
		}
	}

	return events, nil
}

func (s *Storage) loadChildren(e *models.Event) error {
	optRows, err := s.DB.Query(`
		SELECT response_token, label
		FROM event_attendance_option
		WHERE event_id = $1
		ORDER BY list_index ASC`, e.ID)
	if err != nil {
		return fmt.Errorf("failed to load attendance options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var opt models.AttendanceOption
		if err = optRows.Scan(&opt.Token, &opt.Label); err != nil {
			return fmt.Errorf("failed to scan attendance option: %w", err)
		}
		e.AttendanceOptions = append(e.AttendanceOptions, opt)
	}
	if err = optRows.Err(); err != nil {
		return fmt.Errorf("error iterating attendance options: %w", err)
	}

	postRows, err := s.DB.Query(`SELECT message_id, channel_id FROM event_post WHERE event_id = $1`, e.ID)
	if err != nil {
		return fmt.Errorf("failed to load event posts: %w", err)
	}
	defer postRows.Close()

	e.Posts = make(map[string]models.Post)
	for postRows.Next() {
		var messageID, channelID string
		if err = postRows.Scan(&messageID, &channelID); err != nil {
			return fmt.Errorf("failed to scan event post: %w", err)
		}
		e.Posts[messageID] = models.Post{ChannelID: channelID}
	}
	if err = postRows.Err(); err != nil {
		return fmt.Errorf("error iterating event posts: %w", err)
	}

	memberRows, err := s.DB.Query(`SELECT user_id, response_token FROM event_member WHERE event_id = $1`, e.ID)
	if err != nil {
		return fmt.Errorf("failed to load event members: %w", err)
	}
	defer memberRows.Close()

	e.Attendees = make(map[string]*models.Attendee)
	for memberRows.Next() {
		var userID, token string
		if err = memberRows.Scan(&userID, &token); err != nil {
			return fmt.Errorf("failed to scan event member: %w", err)
		}
		e.Attendees[userID] = &models.Attendee{Token: token}
	}
	if err = memberRows.Err(); err != nil {
		return fmt.Errorf("error iterating event members: %w", err)
	}

	var role models.EventRole
	err = s.DB.QueryRow(`SELECT role_id, auto_delete FROM event_role WHERE event_id = $1`, e.ID).
		Scan(&role.RoleID, &role.AutoDelete)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return fmt.Errorf("failed to load event role: %w", err)
	default:
		e.Role = &role
	}

	return nil
}
