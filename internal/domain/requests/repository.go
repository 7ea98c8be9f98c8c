package requests

import "context"

type Repository interface {
	Create(ctx context.Context, r Request) error
	Update(ctx context.Context, r Request) error
	GetByID(ctx context.Context, id string) (Request, error)
	ListByStatus(ctx context.Context, status Status) ([]Request, error)
	ListByClinic(ctx context.Context, clinicID string) ([]Request, error)
}
