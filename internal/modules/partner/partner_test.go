package partner

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/warehouse/internal/apperr"
)

func TestAddPointsWorkedExample(t *testing.T) {
	p := New("ana", "Ana", "Lisbon", DefaultLadder())
	require.NoError(t, p.AddPoints(decimal.RequireFromString("100.0")))
	assert.Equal(t, 1000, p.Points())
	assert.Equal(t, "NORMAL", p.Rank().Name)

	require.NoError(t, p.AddPoints(decimal.NewFromInt(100)))
	assert.Equal(t, 2000, p.Points())
	assert.Equal(t, "SELECTION", p.Rank().Name)
}

func TestAddPointsTruncates(t *testing.T) {
	p := New("ana", "Ana", "", DefaultLadder())
	require.NoError(t, p.AddPoints(decimal.RequireFromString("0.19")))
	assert.Equal(t, 1, p.Points())
	require.NoError(t, p.AddPoints(decimal.Zero))
	assert.Equal(t, 1, p.Points())

	err := p.AddPoints(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	assert.Equal(t, 1, p.Points())
}

func TestTakePointsDemotes(t *testing.T) {
	p := New("ana", "Ana", "", DefaultLadder())
	require.NoError(t, p.AddPoints(decimal.NewFromInt(2600)))
	require.Equal(t, 26000, p.Points())
	require.Equal(t, "ELITE", p.Rank().Name)

	require.NoError(t, p.TakePoints(15))
	assert.Equal(t, 26000, p.Points(), "no decay before the first step")

	require.NoError(t, p.TakePoints(16))
	assert.Equal(t, 6500, p.Points())
	assert.Equal(t, "SELECTION", p.Rank().Name)

	require.NoError(t, p.TakePoints(3))
	assert.Equal(t, 650, p.Points())
	assert.Equal(t, "NORMAL", p.Rank().Name)

	require.NoError(t, p.TakePoints(1))
	assert.Zero(t, p.Points())

	assert.ErrorIs(t, p.TakePoints(-1), apperr.ErrInvalidArgument)
}

// Rank is a function of points after any sequence of awards and penalties,
// and awards never decrease points.
func TestRankConsistencyUnderRandomCommands(t *testing.T) {
	ladder := DefaultLadder()
	rng := rand.New(rand.NewSource(11))
	p := New("ana", "Ana", "", ladder)
	for i := 0; i < 1000; i++ {
		before := p.Points()
		if rng.Intn(4) == 0 {
			require.NoError(t, p.TakePoints(rng.Intn(20)))
			assert.LessOrEqual(t, p.Points(), before)
		} else {
			price := decimal.New(rng.Int63n(100_000), -2)
			require.NoError(t, p.AddPoints(price))
			assert.GreaterOrEqual(t, p.Points(), before)
		}
		require.Equal(t, ladder.Resolve(p.Points()).Name, p.Rank().Name)
		require.GreaterOrEqual(t, p.Points(), 0)
	}
}

func TestIdentityIgnoresCase(t *testing.T) {
	ladder := DefaultLadder()
	a := New("Ana", "first", "", ladder)
	b := New("ANA", "second", "", ladder)
	c := New("bob", "", "", ladder)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.Zero(t, Compare(a, b))
	assert.Negative(t, Compare(a, c))
	assert.Positive(t, Compare(c, a))
	assert.False(t, a.Equal(nil))
	assert.False(t, a.Equal(c))
}

func TestTransactionsAreASet(t *testing.T) {
	p := New("ana", "Ana", "", DefaultLadder())
	id := uuid.New()
	p.AddTransaction(id)
	p.AddTransaction(id)
	assert.Len(t, p.Transactions(), 1)
	assert.True(t, p.HasTransaction(id))
	assert.False(t, p.HasTransaction(uuid.New()))
}

func TestStringRoundsHalfUp(t *testing.T) {
	p := New("ana", "Ana", "Lisbon", DefaultLadder())
	p.recordPurchase(decimal.RequireFromString("10.5"))
	p.recordSale(decimal.RequireFromString("2.49"))
	p.recordPayment(decimal.RequireFromString("0.5"))
	require.NoError(t, p.AddPoints(decimal.RequireFromString("2.49")))

	assert.Equal(t, "ana|Ana|Lisbon|NORMAL|24|11|2|1", p.String())
}

func TestCloneIsIndependent(t *testing.T) {
	p := New("ana", "Ana", "", DefaultLadder())
	c := p.clone()
	c.AddTransaction(uuid.New())
	require.NoError(t, c.AddPoints(decimal.NewFromInt(500)))

	assert.Empty(t, p.Transactions())
	assert.Zero(t, p.Points())
}

func TestMarshalJSON(t *testing.T) {
	p := New("ana", "Ana", "Lisbon", DefaultLadder())
	require.NoError(t, p.AddPoints(decimal.NewFromInt(300)))

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "ana", got["id"])
	assert.Equal(t, "SELECTION", got["rank"])
	assert.EqualValues(t, 3000, got["points"])
	assert.Equal(t, []interface{}{}, got["transactions"])
}

func TestAddPointsRejectsOverflow(t *testing.T) {
	p := New("ana", "Ana", "", DefaultLadder())

	err := p.AddPoints(decimal.RequireFromString("1e18"))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	assert.Zero(t, p.Points())
	assert.Equal(t, "NORMAL", p.Rank().Name)

	require.NoError(t, p.AddPoints(decimal.RequireFromString("5e17")))
	require.Equal(t, 5_000_000_000_000_000_000, p.Points())
	err = p.AddPoints(decimal.RequireFromString("5e17"))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	assert.Equal(t, 5_000_000_000_000_000_000, p.Points())
	assert.Equal(t, "ELITE", p.Rank().Name)
}
