package decay

import (
	"sort"
	"time"

	"github.com/lazypower/halflife/internal/dose"
)

// gridPoints is the number of evenly spaced samples laid over the span, in
// addition to one sample at every dose timestamp.
const gridPoints = 100

// Point is one sample of the decay curve.
type Point struct {
	At    time.Time
	Level float64
}

// Sample builds a plot-ready decay curve for the dose history.
//
// The span runs from the earliest dose (or now, whichever is earlier) to
// now + 5 half-lives, after which any remaining level is negligible.
// Evaluation instants are every dose timestamp plus gridPoints evenly
// spaced instants, deduplicated and sorted ascending. The returned slice
// is safe to iterate any number of times.
func Sample(doses []dose.Dose, halfLifeHours float64, now time.Time) ([]Point, error) {
	cfg := Config{HalfLifeHours: halfLifeHours, At: now}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = time.Now()
	}

	start := now
	for _, d := range doses {
		if d.TakenAt.Before(start) {
			start = d.TakenAt
		}
	}
	end := now.Add(time.Duration(5 * halfLifeHours * float64(time.Hour)))

	// Collect instants: dose timestamps + evenly spaced grid.
	seen := make(map[int64]bool, len(doses)+gridPoints+1)
	instants := make([]time.Time, 0, len(doses)+gridPoints+1)
	add := func(t time.Time) {
		key := t.UnixMilli()
		if seen[key] {
			return
		}
		seen[key] = true
		instants = append(instants, t)
	}

	for _, d := range doses {
		add(d.TakenAt)
	}
	// Grid offsets are computed in float64: scaling a Duration by the grid
	// index overflows int64 nanoseconds once the span passes ~2.9 years,
	// which a large half-life reaches. The end instant is added exactly.
	span := float64(end.Sub(start))
	for i := 0; i < gridPoints; i++ {
		add(start.Add(time.Duration(span * float64(i) / gridPoints)))
	}
	add(end)

	sort.Slice(instants, func(i, j int) bool {
		return instants[i].Before(instants[j])
	})

	points := make([]Point, 0, len(instants))
	for _, t := range instants {
		level, err := ActiveLevel(doses, Config{HalfLifeHours: halfLifeHours, At: t})
		if err != nil {
			return nil, err
		}
		points = append(points, Point{At: t, Level: level})
	}
	return points, nil
}
