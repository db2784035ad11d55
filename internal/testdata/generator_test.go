package testdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/energylog/internal/energy"
)

type memSaver struct {
	saved []energy.Energy
}

func (m *memSaver) Save(_ context.Context, e energy.Energy) (energy.Energy, error) {
	m.saved = append(m.saved, e)
	return e, nil
}

func TestGenerate_MonotonicPerKind(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	got := Generate(40, Options{Days: 30, Seed: 7, Now: now})
	require.Len(t, got, 40)

	last := map[energy.Kind]float64{}
	var prevCreated int64
	for _, e := range got {
		require.NoError(t, e.Validate())
		require.GreaterOrEqual(t, e.Amount, last[e.Kind])
		require.Greater(t, e.Created, prevCreated)
		require.LessOrEqual(t, e.Created, now.Unix())
		last[e.Kind] = e.Amount
		prevCreated = e.Created
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := Generate(8, Options{Seed: 42, Now: now})
	b := Generate(8, Options{Seed: 42, Now: now})
	for i := range a {
		require.Equal(t, a[i].Amount, b[i].Amount)
		require.Equal(t, a[i].Created, b[i].Created)
	}
	require.Nil(t, Generate(0, Options{}))
}

func TestSeed(t *testing.T) {
	t.Parallel()
	s := &memSaver{}
	n, err := Seed(context.Background(), s, 5, Options{Seed: 1})
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Len(t, s.saved, 5)
}
