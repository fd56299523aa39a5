package workout

import "time"

type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at,omitempty"`
	Status         string    `json:"status"`
	DistanceKm     float64   `json:"distance_km"`
	ElevationGainM float64   `json:"elevation_gain_m"`
	ActiveSeconds  int64     `json:"active_seconds"`
}

// Sample is one observation from the device's location feed. PressureHPa is
// only meaningful when Barometer is true.
type Sample struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	AltitudeM   float64   `json:"altitude_m"`
	AccuracyM   float64   `json:"accuracy_m"`
	PressureHPa float64   `json:"pressure_hpa,omitempty"`
	Barometer   bool      `json:"barometer"`
	RecordedAt  time.Time `json:"recorded_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Snapshot is an immutable readout of a live session, formatted the way the
// display layer consumes it: distance to 1 decimal, speed to 2, gain to 1.
type Snapshot struct {
	SessionID      string  `json:"session_id"`
	Elapsed        string  `json:"elapsed"`
	DistanceKm     float64 `json:"distance_km"`
	AvgSpeedKmh    float64 `json:"avg_speed_kmh"`
	ElevationGainM float64 `json:"elevation_gain_m"`
	ActiveSeconds  int64   `json:"active_seconds"`
	SampleCount    int     `json:"sample_count"`
}
