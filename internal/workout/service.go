package workout

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"backend-workouttrack/internal/db"
	"backend-workouttrack/internal/observability"
	"backend-workouttrack/internal/stream"

	"github.com/google/uuid"
)

// ErrNotLive is returned for operations that need a running accumulator.
var ErrNotLive = errors.New("session not live")

type Service struct {
	db  db.Querier
	hub *stream.Hub
	reg *Registry
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub, reg: NewRegistry()}
}

func (s *Service) StartSession(ctx context.Context, input Session) (Session, error) {
	input.ID = uuid.NewString()
	if input.StartedAt.IsZero() {
		input.StartedAt = time.Now()
	}
	input.Status = "active"

	row := s.db.QueryRow(ctx, `
		INSERT INTO workout_sessions (id, user_id, started_at, status)
		VALUES ($1,$2,$3,$4)
		RETURNING started_at, status
	`, input.ID, input.UserID, input.StartedAt, input.Status)
	if err := row.Scan(&input.StartedAt, &input.Status); err != nil {
		return Session{}, err
	}

	s.reg.Start(input.ID)
	observability.SetActiveSessions(s.reg.Len())
	return input, nil
}

// IngestSample persists the sample, feeds the live accumulator and pushes
// the fresh snapshot to stream watchers. The insert happens first: a sample
// the database rejects must never show up in live readouts, or the state
// rebuilt from persisted samples after a restart would disagree with what
// watchers already saw.
func (s *Service) IngestSample(ctx context.Context, sessionID string, input Sample) (Snapshot, error) {
	if input.RecordedAt.IsZero() {
		input.RecordedAt = time.Now()
	}
	if !s.reg.Live(sessionID) {
		return Snapshot{}, ErrNotLive
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO workout_samples (session_id, lat, lng, altitude_m, accuracy_m, pressure_hpa, barometer, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at
	`, sessionID, input.Lat, input.Lng, input.AltitudeM, input.AccuracyM, input.PressureHPa, input.Barometer, input.RecordedAt)
	if err := row.Scan(&input.ID, &input.CreatedAt); err != nil {
		return Snapshot{}, err
	}

	snap, ok := s.reg.Ingest(sessionID, input)
	if !ok {
		return Snapshot{}, ErrNotLive
	}

	if s.hub != nil {
		payload, _ := json.Marshal(snap)
		s.hub.Broadcast(sessionID, payload)
		observability.RecordSnapshotBroadcast()
	}
	return snap, nil
}

func (s *Service) PauseSession(ctx context.Context, sessionID string) error {
	if !s.reg.Pause(sessionID) {
		return ErrNotLive
	}
	_, err := s.db.Exec(ctx, `UPDATE workout_sessions SET status='paused' WHERE id=$1`, sessionID)
	return err
}

// ResumeSession restarts the stopwatch. When the accumulator is gone (e.g.
// after a process restart) it is rebuilt by replaying the persisted samples.
func (s *Service) ResumeSession(ctx context.Context, sessionID string) error {
	if !s.reg.Resume(sessionID) {
		samples, err := s.Samples(ctx, sessionID)
		if err != nil {
			return err
		}
		s.reg.Start(sessionID)
		for _, sample := range samples {
			s.reg.Ingest(sessionID, sample)
		}
		observability.SetActiveSessions(s.reg.Len())
	}
	_, err := s.db.Exec(ctx, `UPDATE workout_sessions SET status='active' WHERE id=$1`, sessionID)
	return err
}

// StopSession freezes the session, persists the final readouts and drops the
// live accumulator.
func (s *Service) StopSession(ctx context.Context, sessionID string) (Session, error) {
	snap, ok := s.reg.Snapshot(sessionID)
	if !ok {
		return Session{}, ErrNotLive
	}
	s.reg.Drop(sessionID)
	observability.SetActiveSessions(s.reg.Len())

	session := Session{
		ID:             sessionID,
		EndedAt:        time.Now(),
		Status:         "finished",
		DistanceKm:     snap.DistanceKm,
		ElevationGainM: snap.ElevationGainM,
		ActiveSeconds:  snap.ActiveSeconds,
	}
	row := s.db.QueryRow(ctx, `
		UPDATE workout_sessions
		SET ended_at=$2, status='finished', distance_km=$3, elevation_gain_m=$4, active_seconds=$5
		WHERE id=$1
		RETURNING user_id, started_at
	`, sessionID, session.EndedAt, session.DistanceKm, session.ElevationGainM, session.ActiveSeconds)
	if err := row.Scan(&session.UserID, &session.StartedAt); err != nil {
		return Session{}, err
	}
	return session, nil
}

// LiveSnapshot returns the current readouts of a running session.
func (s *Service) LiveSnapshot(sessionID string) (Snapshot, error) {
	snap, ok := s.reg.Snapshot(sessionID)
	if !ok {
		return Snapshot{}, ErrNotLive
	}
	return snap, nil
}

func (s *Service) GetSession(ctx context.Context, sessionID string) (Session, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, started_at, ended_at, status, COALESCE(distance_km,0), COALESCE(elevation_gain_m,0), COALESCE(active_seconds,0)
		FROM workout_sessions WHERE id=$1
	`, sessionID)

	var session Session
	var endedAt *time.Time
	if err := row.Scan(&session.ID, &session.UserID, &session.StartedAt, &endedAt, &session.Status, &session.DistanceKm, &session.ElevationGainM, &session.ActiveSeconds); err != nil {
		return Session{}, err
	}
	if endedAt != nil {
		session.EndedAt = *endedAt
	}
	return session, nil
}

func (s *Service) Samples(ctx context.Context, sessionID string) ([]Sample, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, session_id, lat, lng, altitude_m, COALESCE(accuracy_m,0), COALESCE(pressure_hpa,0), barometer, recorded_at, created_at
		FROM workout_samples WHERE session_id=$1
		ORDER BY recorded_at
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var sm Sample
		if err := rows.Scan(&sm.ID, &sm.SessionID, &sm.Lat, &sm.Lng, &sm.AltitudeM, &sm.AccuracyM, &sm.PressureHPa, &sm.Barometer, &sm.RecordedAt, &sm.CreatedAt); err != nil {
			return nil, err
		}
		samples = append(samples, sm)
	}
	return samples, nil
}
