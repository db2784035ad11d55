// Package testdata produces plausible synthetic meter readings for demo
// databases and tests.
package testdata

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jask/energylog/internal/energy"
)

// Saver stores one reading.
type Saver interface {
	Save(ctx context.Context, e energy.Energy) (energy.Energy, error)
}

// Options tune Generate.
type Options struct {
	// Days is how far back the first reading lies.
	Days int
	// Seed makes the output reproducible; 0 uses the current time.
	Seed int64
	// Now anchors the series; zero means time.Now().
	Now time.Time
}

// daily consumption range per kind, in the kind's unit.
var usage = map[energy.Kind][2]float64{
	energy.ElectricityVT: {4, 14},
	energy.ElectricityNT: {2, 8},
	energy.Gas:           {0.5, 4},
	energy.Water:         {0.1, 0.6},
}

// Generate returns n readings spread over the period, cycling through the
// kinds. Each kind's meter only ever counts up.
func Generate(n int, opts Options) []energy.Energy {
	if n <= 0 {
		return nil
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	days := opts.Days
	if days <= 0 {
		days = 90
	}

	kinds := energy.Kinds()
	meters := map[energy.Kind]float64{}
	for _, k := range kinds {
		meters[k] = float64(rng.Intn(5000) + 1000)
	}
	start := now.AddDate(0, 0, -days)
	step := time.Duration(days) * 24 * time.Hour / time.Duration(n)

	out := make([]energy.Energy, 0, n)
	for i := 0; i < n; i++ {
		k := kinds[i%len(kinds)]
		r := usage[k]
		elapsedDays := step.Hours() * float64(len(kinds)) / 24
		meters[k] += (r[0] + rng.Float64()*(r[1]-r[0])) * max(elapsedDays, 1)
		out = append(out, energy.Energy{
			ID:      uuid.NewString(),
			Kind:    k,
			Amount:  float64(int64(meters[k])),
			Created: start.Add(time.Duration(i+1) * step).Unix(),
		})
	}
	return out
}

// Seed generates n readings and stores them through s.
func Seed(ctx context.Context, s Saver, n int, opts Options) (int, error) {
	saved := 0
	for _, e := range Generate(n, opts) {
		if _, err := s.Save(ctx, e); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}
