package registry

import "context"

// Store is the durable registry handle injected into the service, so the
// core stays testable against an in-memory or mocked stand-in.
type Store interface {
	CreateGym(ctx context.Context, gym Gym) (*Gym, error)
	GetGymByID(ctx context.Context, id string) (*Gym, error)
	ListGyms(ctx context.Context) ([]Gym, error)
	UpdateGym(ctx context.Context, id, owner string, p GymPayload) (*Gym, error)
	DeleteGym(ctx context.Context, id, owner string) error

	AddMembership(ctx context.Context, m Membership) (*Membership, error)
	ListMemberships(ctx context.Context, gymID string) ([]Membership, error)

	AddService(ctx context.Context, s GymService) (*GymService, error)
	ListServices(ctx context.Context, gymID string) ([]GymService, error)
}
