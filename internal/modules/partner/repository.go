package partner

import "context"

// Repository defines the interface for partner storage. Partners live for
// the whole process; there is no delete.
type Repository interface {
	Create(ctx context.Context, p *Partner) error
	GetByID(ctx context.Context, id string) (*Partner, error)
	List(ctx context.Context) ([]*Partner, error)
}
