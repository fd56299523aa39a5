package history

import (
	"context"

	"backend-workouttrack/internal/db"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// List returns the user's finished workouts, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, started_at, ended_at, COALESCE(distance_km,0), COALESCE(elevation_gain_m,0), COALESCE(active_seconds,0)
		FROM workout_sessions
		WHERE user_id=$1 AND status='finished'
		ORDER BY started_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.StartedAt, &e.EndedAt, &e.DistanceKm, &e.ElevationGainM, &e.ActiveSeconds); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Service) Totals(ctx context.Context, userID string) (Totals, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(distance_km),0), COALESCE(SUM(elevation_gain_m),0), COALESCE(SUM(active_seconds),0)
		FROM workout_sessions
		WHERE user_id=$1 AND status='finished'
	`, userID)

	var t Totals
	if err := row.Scan(&t.Workouts, &t.DistanceKm, &t.ElevationGainM, &t.ActiveSeconds); err != nil {
		return Totals{}, err
	}
	return t, nil
}

func (s *Service) Bests(ctx context.Context, userID string) (Bests, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(distance_km),0), COALESCE(MAX(elevation_gain_m),0), COALESCE(MAX(active_seconds),0)
		FROM workout_sessions
		WHERE user_id=$1 AND status='finished'
	`, userID)

	var b Bests
	if err := row.Scan(&b.LongestDistanceKm, &b.BiggestClimbM, &b.LongestActiveSec); err != nil {
		return Bests{}, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, userID, sessionID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM workout_samples WHERE session_id=$1`, sessionID); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `DELETE FROM workout_sessions WHERE id=$1 AND user_id=$2`, sessionID, userID)
	return err
}
