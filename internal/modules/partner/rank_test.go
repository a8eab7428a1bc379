package partner

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/warehouse/internal/config"
)

func TestDefaultLadderBoundaries(t *testing.T) {
	l := DefaultLadder()
	cases := []struct {
		points int
		want   string
	}{
		{0, "NORMAL"},
		{1999, "NORMAL"},
		{2000, "SELECTION"},
		{24999, "SELECTION"},
		{25000, "ELITE"},
		{1_000_000, "ELITE"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, l.Resolve(c.points).Name, "points %d", c.points)
	}
	assert.Equal(t, "NORMAL", l.Entry().Name)
}

func TestRankPenaltySteps(t *testing.T) {
	l := DefaultLadder()
	ranks := l.Ranks()
	normal, selection, elite := ranks[0], ranks[1], ranks[2]

	assert.True(t, normal.Penalty(0).Equal(decimal.NewFromInt(1)))
	assert.True(t, normal.Penalty(1).IsZero())

	assert.True(t, selection.Penalty(2).Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "0.1", selection.Penalty(3).String())
	assert.Equal(t, "0.1", selection.Penalty(40).String())

	assert.True(t, elite.Penalty(15).Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "0.25", elite.Penalty(16).String())
}

func TestNewLadderValidation(t *testing.T) {
	half := decimal.RequireFromString("0.5")
	cases := map[string][]Rank{
		"empty":            nil,
		"no zero rank":     {NewRank("A", 10)},
		"duplicate name":   {NewRank("A", 0), NewRank("a", 10)},
		"shared threshold": {NewRank("A", 0), NewRank("B", 0)},
		"nameless":         {NewRank(" ", 0)},
		"multiplier > 1":   {NewRank("A", 0, Penalty{FromPeriod: 1, Multiplier: decimal.NewFromInt(2)})},
		"negative period":  {NewRank("A", 0, Penalty{FromPeriod: -1, Multiplier: half})},
		"repeated period":  {NewRank("A", 0, Penalty{FromPeriod: 1, Multiplier: half}, Penalty{FromPeriod: 1, Multiplier: half})},
	}
	for name, ranks := range cases {
		_, err := NewLadder(ranks...)
		assert.Error(t, err, name)
	}
}

func TestLadderFromConfig(t *testing.T) {
	l, err := LadderFromConfig(nil)
	require.NoError(t, err)
	assert.Len(t, l.Ranks(), 3)

	l, err = LadderFromConfig([]config.Rank{
		{Name: "GOLD", Threshold: 100, Penalties: []config.Penalty{{FromPeriod: 2, Multiplier: 0.5}}},
		{Name: "BASIC", Threshold: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, "BASIC", l.Entry().Name)
	assert.Equal(t, "GOLD", l.Resolve(100).Name)
	assert.Equal(t, "0.5", l.Resolve(100).Penalty(2).String())

	_, err = LadderFromConfig([]config.Rank{{Name: "GOLD", Threshold: 100}})
	assert.Error(t, err)
}

func TestExampleRanksFileMatchesDefault(t *testing.T) {
	ranks, err := config.LoadRanks("../../../ranks.example.yaml")
	require.NoError(t, err)
	l, err := LadderFromConfig(ranks)
	require.NoError(t, err)

	want := DefaultLadder().Ranks()
	got := l.Ranks()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Threshold, got[i].Threshold)
		for _, period := range []int{0, 1, 2, 3, 15, 16, 100} {
			assert.True(t, want[i].Penalty(period).Equal(got[i].Penalty(period)), "%s period %d", want[i].Name, period)
		}
	}
}

func TestOrderingSurvivesExtremeValues(t *testing.T) {
	half := decimal.RequireFromString("0.5")
	r := NewRank("A", 0, Penalty{FromPeriod: math.MaxInt, Multiplier: half}, Penalty{FromPeriod: -1, Multiplier: half})
	steps := r.Penalties()
	assert.Equal(t, -1, steps[0].FromPeriod)
	assert.Equal(t, math.MaxInt, steps[1].FromPeriod)

	_, err := NewLadder(NewRank("TOP", math.MaxInt), NewRank("NEG", -1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"NEG"`)

	l, err := NewLadder(NewRank("TOP", math.MaxInt), NewRank("BASE", 0))
	require.NoError(t, err)
	assert.Equal(t, "BASE", l.Resolve(math.MaxInt-1).Name)
	assert.Equal(t, "TOP", l.Resolve(math.MaxInt).Name)
}
