package history

import "time"

type Entry struct {
	ID             string    `json:"id"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
	DistanceKm     float64   `json:"distance_km"`
	ElevationGainM float64   `json:"elevation_gain_m"`
	ActiveSeconds  int64     `json:"active_seconds"`
}

type Totals struct {
	Workouts       int     `json:"workouts"`
	DistanceKm     float64 `json:"distance_km"`
	ElevationGainM float64 `json:"elevation_gain_m"`
	ActiveSeconds  int64   `json:"active_seconds"`
}

type Bests struct {
	LongestDistanceKm float64 `json:"longest_distance_km"`
	BiggestClimbM     float64 `json:"biggest_climb_m"`
	LongestActiveSec  int64   `json:"longest_active_seconds"`
}
