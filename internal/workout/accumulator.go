package workout

import (
	"math"

	"backend-workouttrack/internal/shared/geo"
)

const (
	// Standard-atmosphere constants for the barometric altitude formula.
	seaLevelPressureHPa = 1013.25
	barometricExponent  = 0.1903
	barometricScaleM    = 44330.0

	// Upward altitude deltas at or below this are treated as sensor jitter
	// and do not count toward cumulative gain. Downward deltas re-anchor
	// immediately, with no threshold.
	gainThresholdM = 3.0
)

// Accumulator ingests the ordered sample stream of one workout session and
// derives distance, speed and cumulative elevation gain. It performs only
// in-memory arithmetic; Ingest never blocks. Not safe for concurrent use on
// its own; the Registry serializes access to live accumulators.
type Accumulator struct {
	sessionID string
	track     []Sample
	watch     *Stopwatch

	baseAltitude   float64
	baseSet        bool
	cumulativeGain float64
}

func NewAccumulator(sessionID string) *Accumulator {
	return &Accumulator{
		sessionID: sessionID,
		watch:     NewStopwatch(),
	}
}

// Reset clears the track, the altitude anchor, the cumulative gain and the
// stopwatch. Used at workout start and stop.
func (a *Accumulator) Reset() {
	a.track = nil
	a.baseSet = false
	a.baseAltitude = 0
	a.cumulativeGain = 0
	a.watch.Reset()
}

// Ingest appends one sample and folds its fused altitude into the elevation
// state. Samples are assumed time-ordered; ordering is not validated.
func (a *Accumulator) Ingest(s Sample) {
	a.track = append(a.track, s)
	a.updateElevation(FusedAltitudeM(s))
}

// FusedAltitudeM combines the GPS altitude with a pressure-derived altitude
// when a barometer reading is present, as an unweighted mean. Without a
// barometer the GPS altitude passes through unmodified.
func FusedAltitudeM(s Sample) float64 {
	if !s.Barometer {
		return s.AltitudeM
	}
	fromPressure := barometricScaleM * (1 - math.Pow(s.PressureHPa/seaLevelPressureHPa, barometricExponent))
	return (s.AltitudeM + fromPressure) / 2
}

func (a *Accumulator) updateElevation(currentAltitude float64) {
	if !a.baseSet {
		a.baseAltitude = currentAltitude
		a.baseSet = true
		return
	}

	delta := currentAltitude - a.baseAltitude
	switch {
	case delta > gainThresholdM:
		a.cumulativeGain += delta
		a.baseAltitude = currentAltitude
	case delta < 0:
		// Re-anchor downward so a descent is not misread as a gain once the
		// altitude climbs back toward the old anchor.
		a.baseAltitude = currentAltitude
	}
	// 0 <= delta <= threshold: jitter inside the anchor, no state change.
}

// TotalDistanceKm sums the haversine distance over consecutive track points.
func (a *Accumulator) TotalDistanceKm() float64 {
	var km float64
	for i := 1; i < len(a.track); i++ {
		prev, cur := a.track[i-1], a.track[i]
		km += geo.HaversineKm(prev.Lat, prev.Lng, cur.Lat, cur.Lng)
	}
	return km
}

// AverageSpeedKmh divides the path distance by active (unpaused) time.
// Returns 0 while no active time has accumulated.
func (a *Accumulator) AverageSpeedKmh() float64 {
	seconds := a.watch.Elapsed().Seconds()
	if seconds == 0 {
		return 0
	}
	return a.TotalDistanceKm() / (seconds / 3600)
}

// ElevationGainM returns the cumulative gain as of the last Ingest call.
func (a *Accumulator) ElevationGainM() float64 {
	return a.cumulativeGain
}

func (a *Accumulator) Start()  { a.watch.Start() }
func (a *Accumulator) Pause()  { a.watch.Pause() }
func (a *Accumulator) Resume() { a.watch.Start() }

// Snapshot returns a value copy of the current readouts, rounded the way
// the display layer shows them.
func (a *Accumulator) Snapshot() Snapshot {
	elapsed := a.watch.Elapsed()
	return Snapshot{
		SessionID:      a.sessionID,
		Elapsed:        FormatElapsed(elapsed),
		DistanceKm:     round1(a.TotalDistanceKm()),
		AvgSpeedKmh:    round2(a.AverageSpeedKmh()),
		ElevationGainM: round1(a.cumulativeGain),
		ActiveSeconds:  int64(elapsed.Seconds()),
		SampleCount:    len(a.track),
	}
}

// Track returns a copy of the recorded samples.
func (a *Accumulator) Track() []Sample {
	out := make([]Sample, len(a.track))
	copy(out, a.track)
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
