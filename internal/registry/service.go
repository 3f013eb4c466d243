package registry

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"gymhub/internal/logger"
	"gymhub/internal/metrics"
	"gymhub/internal/principal"
)

var (
	ErrInvalidPayload = errors.New("required field missing or empty")
)

// Notifier sends fire-and-forget member notifications. Failures are logged
// and never surfaced to the caller.
type Notifier interface {
	SendMembershipWelcome(ctx context.Context, to, name, gymName string) error
}

type Service interface {
	CreateGym(ctx context.Context, owner principal.Principal, p GymPayload) (*Gym, error)
	ListGyms(ctx context.Context) ([]Gym, error)
	GetGym(ctx context.Context, id string) (*Gym, error)
	UpdateGym(ctx context.Context, caller principal.Principal, id string, p GymPayload) (*Gym, error)
	DeleteGym(ctx context.Context, caller principal.Principal, id string) (string, error)
	RegisterMember(ctx context.Context, caller principal.Principal, gymID string, p MembershipPayload) (*Gym, error)
	ListMembers(ctx context.Context, gymID string) ([]Membership, error)
	AddService(ctx context.Context, caller principal.Principal, gymID string, p GymServicePayload) (*Gym, error)
	ListServices(ctx context.Context, gymID string) ([]GymService, error)
}

type service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) Service {
	return &service{
		store:    store,
		notifier: notifier,
	}
}

func anyEmpty(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}

func (s *service) CreateGym(ctx context.Context, owner principal.Principal, p GymPayload) (*Gym, error) {
	if anyEmpty(p.Name, p.ImageURL, p.Location, p.Description, p.Email) {
		return nil, ErrInvalidPayload
	}

	gym, err := s.store.CreateGym(ctx, Gym{
		ID:          uuid.NewString(),
		Owner:       owner.String(),
		Name:        p.Name,
		ImageURL:    p.ImageURL,
		Location:    p.Location,
		Description: p.Description,
		Email:       p.Email,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordGymCreated()
	return gym, nil
}

func (s *service) ListGyms(ctx context.Context) ([]Gym, error) {
	return s.store.ListGyms(ctx)
}

func (s *service) GetGym(ctx context.Context, id string) (*Gym, error) {
	return s.store.GetGymByID(ctx, id)
}

func (s *service) UpdateGym(ctx context.Context, caller principal.Principal, id string, p GymPayload) (*Gym, error) {
	if anyEmpty(p.Name, p.ImageURL, p.Location, p.Description, p.Email) {
		return nil, ErrInvalidPayload
	}
	return s.store.UpdateGym(ctx, id, caller.String(), p)
}

func (s *service) DeleteGym(ctx context.Context, caller principal.Principal, id string) (string, error) {
	if err := s.store.DeleteGym(ctx, id, caller.String()); err != nil {
		return "", err
	}
	return id, nil
}

func (s *service) RegisterMember(ctx context.Context, caller principal.Principal, gymID string, p MembershipPayload) (*Gym, error) {
	if anyEmpty(p.FullName, p.UserName, p.EmailAddress) {
		return nil, ErrInvalidPayload
	}

	member, err := s.store.AddMembership(ctx, Membership{
		GymID:        gymID,
		UserID:       caller.String(),
		UserName:     p.UserName,
		FullName:     p.FullName,
		EmailAddress: p.EmailAddress,
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMembership()

	gym, err := s.store.GetGymByID(ctx, gymID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.SendMembershipWelcome(ctx, member.EmailAddress, member.FullName, gym.Name); err != nil {
			logger.Errorf("Failed to queue welcome email for %s: %v", member.EmailAddress, err)
		}
	}

	return gym, nil
}

func (s *service) ListMembers(ctx context.Context, gymID string) ([]Membership, error) {
	if _, err := s.store.GetGymByID(ctx, gymID); err != nil {
		return nil, err
	}

	members, err := s.store.ListMemberships(ctx, gymID)
	if err != nil {
		return nil, err
	}

	// Storage is already scoped by gym, but re-filter defensively.
	filtered := make([]Membership, 0, len(members))
	for _, m := range members {
		if m.GymID == gymID {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

func (s *service) AddService(ctx context.Context, caller principal.Principal, gymID string, p GymServicePayload) (*Gym, error) {
	if anyEmpty(p.ServiceName, p.ServiceDescription, p.OperatingDaysStart, p.OperatingDaysEnd) {
		return nil, ErrInvalidPayload
	}

	gym, err := s.store.GetGymByID(ctx, gymID)
	if err != nil {
		return nil, err
	}
	if gym.Owner != caller.String() {
		return nil, ErrNotOwner
	}

	if _, err := s.store.AddService(ctx, GymService{
		GymID:              gymID,
		ServiceName:        p.ServiceName,
		ServiceDescription: p.ServiceDescription,
		OperatingDaysStart: p.OperatingDaysStart,
		OperatingDaysEnd:   p.OperatingDaysEnd,
	}); err != nil {
		return nil, err
	}

	return s.store.GetGymByID(ctx, gymID)
}

func (s *service) ListServices(ctx context.Context, gymID string) ([]GymService, error) {
	if _, err := s.store.GetGymByID(ctx, gymID); err != nil {
		return nil, err
	}

	services, err := s.store.ListServices(ctx, gymID)
	if err != nil {
		return nil, err
	}

	filtered := make([]GymService, 0, len(services))
	for _, svc := range services {
		if svc.GymID == gymID {
			filtered = append(filtered, svc)
		}
	}
	return filtered, nil
}
