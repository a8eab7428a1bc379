package partner

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/warehouse/internal/apperr"
)

var (
	// pointsPerUnit is how many points each unit of sale price is worth.
	pointsPerUnit = decimal.NewFromInt(10)
	maxPoints     = decimal.NewFromInt(math.MaxInt)
)

// Partner is a trading counterparty. Identity is the case-insensitive id:
// use Key for map keys, Equal and Compare instead of == on pointers.
type Partner struct {
	id      string
	name    string
	address string

	points         int
	totalPurchases decimal.Decimal
	totalSales     decimal.Decimal
	paidSales      decimal.Decimal

	ladder       *Ladder
	rank         Rank
	transactions map[uuid.UUID]struct{}

	createdAt time.Time
	updatedAt time.Time
}

// New creates a partner in the ladder's entry rank with no points.
func New(id, name, address string, ladder *Ladder) *Partner {
	now := time.Now()
	return &Partner{
		id:             id,
		name:           name,
		address:        address,
		totalPurchases: decimal.Zero,
		totalSales:     decimal.Zero,
		paidSales:      decimal.Zero,
		ladder:         ladder,
		rank:           ladder.Entry(),
		transactions:   make(map[uuid.UUID]struct{}),
		createdAt:      now,
		updatedAt:      now,
	}
}

// Key returns the canonical form of a partner id.
func Key(id string) string { return strings.ToLower(id) }

func (p *Partner) ID() string { return p.id }
func (p *Partner) Key() string { return Key(p.id) }
func (p *Partner) Name() string { return p.name }
func (p *Partner) Address() string { return p.address }
func (p *Partner) Points() int { return p.points }
func (p *Partner) Rank() Rank { return p.rank }
func (p *Partner) TotalPurchases() decimal.Decimal { return p.totalPurchases }
func (p *Partner) TotalSales() decimal.Decimal { return p.totalSales }
func (p *Partner) PaidSales() decimal.Decimal { return p.paidSales }

// Equal reports whether both partners have the same id ignoring case.
func (p *Partner) Equal(o *Partner) bool {
	if p == o {
		return true
	}
	if p == nil || o == nil {
		return false
	}
	return p.Key() == o.Key()
}

// Compare orders partners by id ignoring case.
func Compare(a, b *Partner) int {
	return strings.Compare(a.Key(), b.Key())
}

// AddPoints awards floor(10 * price) points and re-evaluates the rank.
// A sale that would take points past math.MaxInt is rejected and leaves the
// partner unchanged.
func (p *Partner) AddPoints(price decimal.Decimal) error {
	points, err := p.pointsAfter(price)
	if err != nil {
		return err
	}
	p.points = points
	p.updateRank()
	return nil
}

// pointsAfter computes the points held after a sale of price without
// applying them.
func (p *Partner) pointsAfter(price decimal.Decimal) (int, error) {
	if price.IsNegative() {
		return 0, apperr.Invalid("price must not be negative, got %s", price)
	}
	next := decimal.NewFromInt(int64(p.points)).Add(pointsPerUnit.Mul(price).Floor())
	if next.GreaterThan(maxPoints) {
		return 0, apperr.Invalid("a sale of %s would take points past %d", price, math.MaxInt)
	}
	return int(next.IntPart()), nil
}

// TakePoints decays points by the current rank's penalty for period and
// re-evaluates the rank.
func (p *Partner) TakePoints(period int) error {
	if period < 0 {
		return apperr.Invalid("period must not be negative, got %d", period)
	}
	m := p.rank.Penalty(period)
	p.points = int(decimal.NewFromInt(int64(p.points)).Mul(m).Floor().IntPart())
	p.updateRank()
	return nil
}

// updateRank keeps the rank consistent with points. It must run after
// every points mutation.
func (p *Partner) updateRank() {
	p.rank = p.ladder.Resolve(p.points)
	p.updatedAt = time.Now()
}

// AddTransaction references a transaction. Adding it again is a no-op.
func (p *Partner) AddTransaction(id uuid.UUID) {
	p.transactions[id] = struct{}{}
}

// HasTransaction reports whether the partner references id.
func (p *Partner) HasTransaction(id uuid.UUID) bool {
	_, ok := p.transactions[id]
	return ok
}

// Transactions returns the referenced transaction ids in a stable order.
func (p *Partner) Transactions() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.transactions))
	for id := range p.transactions {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return strings.Compare(a.String(), b.String()) })
	return ids
}

func (p *Partner) recordPurchase(amount decimal.Decimal) {
	p.totalPurchases = p.totalPurchases.Add(amount)
	p.updatedAt = time.Now()
}

func (p *Partner) recordSale(amount decimal.Decimal) {
	p.totalSales = p.totalSales.Add(amount)
	p.updatedAt = time.Now()
}

func (p *Partner) recordPayment(amount decimal.Decimal) {
	p.paidSales = p.paidSales.Add(amount)
	p.updatedAt = time.Now()
}

// clone copies the partner so it can be handed out of the service lock.
func (p *Partner) clone() *Partner {
	c := *p
	c.transactions = maps.Clone(p.transactions)
	return &c
}

// String renders id|name|address|rank|points|purchases|sales|paid with the
// money fields rounded half up to whole units.
func (p *Partner) String() string {
	return fmt.Sprintf("%s|%s|%s|%s|%d|%s|%s|%s",
		p.id, p.name, p.address, p.rank.Name, p.points,
		roundHalfUp(p.totalPurchases), roundHalfUp(p.totalSales), roundHalfUp(p.paidSales))
}

func roundHalfUp(d decimal.Decimal) string {
	return d.Round(0).String()
}

type partnerJSON struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Rank           string          `json:"rank"`
	Points         int             `json:"points"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	PaidSales      decimal.Decimal `json:"paid_sales"`
	Transactions   []uuid.UUID     `json:"transactions"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (p *Partner) MarshalJSON() ([]byte, error) {
	return json.Marshal(partnerJSON{
		ID:             p.id,
		Name:           p.name,
		Address:        p.address,
		Rank:           p.rank.Name,
		Points:         p.points,
		TotalPurchases: p.totalPurchases,
		TotalSales:     p.totalSales,
		PaidSales:      p.paidSales,
		Transactions:   p.Transactions(),
		CreatedAt:      p.createdAt,
		UpdatedAt:      p.updatedAt,
	})
}
