package partner

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/warehouse/internal/config"
)

// Rank is a loyalty tier. A partner holds the rank whose Threshold is the
// highest one not above its points.
type Rank struct {
	Name      string
	Threshold int
	penalties []Penalty
}

// Penalty is one step of a decay table: from FromPeriod onwards points are
// multiplied by Multiplier.
type Penalty struct {
	FromPeriod int
	Multiplier decimal.Decimal
}

// NewRank builds a rank with its decay steps.
func NewRank(name string, threshold int, penalties ...Penalty) Rank {
	steps := slices.Clone(penalties)
	slices.SortFunc(steps, func(a, b Penalty) int { return cmp.Compare(a.FromPeriod, b.FromPeriod) })
	return Rank{Name: name, Threshold: threshold, penalties: steps}
}

// Penalty returns the multiplier applied to points after period elapsed
// periods. It is 1 until the first step is reached.
func (r Rank) Penalty(period int) decimal.Decimal {
	m := decimal.NewFromInt(1)
	for _, p := range r.penalties {
		if period < p.FromPeriod {
			break
		}
		m = p.Multiplier
	}
	return m
}

// Penalties returns a copy of the rank's decay steps.
func (r Rank) Penalties() []Penalty { return slices.Clone(r.penalties) }

func (r Rank) String() string { return r.Name }

// Ladder is the ordered set of ranks. Transitions are a lookup on the
// threshold table, so the active rank is always a function of points alone.
type Ladder struct {
	ranks []Rank
}

// NewLadder validates and orders ranks. The lowest threshold must be 0 and
// thresholds must be distinct.
func NewLadder(ranks ...Rank) (*Ladder, error) {
	if len(ranks) == 0 {
		return nil, fmt.Errorf("rank ladder is empty")
	}
	sorted := slices.Clone(ranks)
	slices.SortFunc(sorted, func(a, b Rank) int { return cmp.Compare(a.Threshold, b.Threshold) })

	if sorted[0].Threshold != 0 {
		return nil, fmt.Errorf("lowest rank %q must start at 0 points, starts at %d", sorted[0].Name, sorted[0].Threshold)
	}
	seen := make(map[string]bool, len(sorted))
	for i, r := range sorted {
		name := strings.ToLower(strings.TrimSpace(r.Name))
		if name == "" {
			return nil, fmt.Errorf("rank at threshold %d has no name", r.Threshold)
		}
		if seen[name] {
			return nil, fmt.Errorf("rank %q defined twice", r.Name)
		}
		seen[name] = true
		if i > 0 && r.Threshold == sorted[i-1].Threshold {
			return nil, fmt.Errorf("ranks %q and %q share threshold %d", sorted[i-1].Name, r.Name, r.Threshold)
		}
		for j, p := range r.penalties {
			if p.FromPeriod < 0 {
				return nil, fmt.Errorf("rank %q: penalty period %d is negative", r.Name, p.FromPeriod)
			}
			if p.Multiplier.IsNegative() || p.Multiplier.GreaterThan(decimal.NewFromInt(1)) {
				return nil, fmt.Errorf("rank %q: penalty multiplier %s outside [0,1]", r.Name, p.Multiplier)
			}
			if j > 0 && p.FromPeriod == r.penalties[j-1].FromPeriod {
				return nil, fmt.Errorf("rank %q: two penalties from period %d", r.Name, p.FromPeriod)
			}
		}
	}
	return &Ladder{ranks: sorted}, nil
}

// DefaultLadder is used when no ranks file is configured.
func DefaultLadder() *Ladder {
	l, err := NewLadder(
		NewRank("NORMAL", 0, Penalty{FromPeriod: 1, Multiplier: decimal.Zero}),
		NewRank("SELECTION", 2000, Penalty{FromPeriod: 3, Multiplier: decimal.RequireFromString("0.10")}),
		NewRank("ELITE", 25000, Penalty{FromPeriod: 16, Multiplier: decimal.RequireFromString("0.25")}),
	)
	if err != nil {
		panic(err)
	}
	return l
}

// LadderFromConfig builds a ladder from the ranks file, falling back to the
// default ladder when none is configured.
func LadderFromConfig(ranks []config.Rank) (*Ladder, error) {
	if len(ranks) == 0 {
		return DefaultLadder(), nil
	}
	built := make([]Rank, 0, len(ranks))
	for _, r := range ranks {
		steps := make([]Penalty, 0, len(r.Penalties))
		for _, p := range r.Penalties {
			steps = append(steps, Penalty{FromPeriod: p.FromPeriod, Multiplier: decimal.NewFromFloat(p.Multiplier)})
		}
		built = append(built, NewRank(r.Name, r.Threshold, steps...))
	}
	return NewLadder(built...)
}

// Entry is the rank every new partner starts in.
func (l *Ladder) Entry() Rank { return l.ranks[0] }

// Resolve returns the rank for a points value.
func (l *Ladder) Resolve(points int) Rank {
	i := sort.Search(len(l.ranks), func(i int) bool { return l.ranks[i].Threshold > points })
	if i == 0 {
		return l.ranks[0]
	}
	return l.ranks[i-1]
}

// Ranks lists the ladder from the lowest tier up.
func (l *Ladder) Ranks() []Rank { return slices.Clone(l.ranks) }
