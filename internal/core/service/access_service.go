package service

import (
	"context"
	"fmt"
	"time"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
	"github.com/streamshare/subscription-manager/internal/pkg/phone"
)

const publicHistoryLimit = 10

// AccessService resolves what a client may see about their own access.
// It never writes.
type AccessService struct {
	clients     ports.ClientRepository
	accounts    ports.AccountRepository
	assignments ports.AssignmentRepository
	cipher      ports.Cipher
	now         func() time.Time
}

func NewAccessService(
	clients ports.ClientRepository,
	accounts ports.AccountRepository,
	assignments ports.AssignmentRepository,
	cipher ports.Cipher,
) *AccessService {
	return &AccessService{
		clients:     clients,
		accounts:    accounts,
		assignments: assignments,
		cipher:      cipher,
		now:         time.Now,
	}
}

// Access returns the credentials of the client's active assignment. An
// unknown number yields domain.ErrClientNotFound, a known client without an
// active assignment domain.ErrNoActiveAssignment.
func (s *AccessService) Access(ctx context.Context, whatsapp string) (*ports.AccessDetail, error) {
	client, err := s.findClient(ctx, whatsapp)
	if err != nil {
		return nil, err
	}

	a, err := s.assignments.FindActiveByClient(ctx, client.ID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, a.AccountID)
	if err != nil {
		return nil, fmt.Errorf("access: %w", err)
	}

	return &ports.AccessDetail{
		ClientName:  client.Name,
		Email:       account.Email,
		Password:    s.cipher.Decrypt(account.Password),
		ProfileName: a.ProfileName,
		PIN:         a.PIN,
		ExpiryDate:  a.ExpiryDate,
	}, nil
}

func (s *AccessService) History(ctx context.Context, whatsapp string) ([]ports.AssignmentView, error) {
	client, err := s.findClient(ctx, whatsapp)
	if err != nil {
		return nil, err
	}

	list, err := s.assignments.List(ctx, ports.AssignmentFilter{
		ClientID: client.ID,
		Sort:     ports.SortAssignedDesc,
		Limit:    publicHistoryLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("access history: %w", err)
	}

	accounts, err := accountsFor(ctx, s.accounts, list)
	if err != nil {
		return nil, fmt.Errorf("access history: %w", err)
	}

	return toViews(list, map[string]*domain.Client{client.ID: client}, accounts, s.now().UTC()), nil
}

func (s *AccessService) findClient(ctx context.Context, whatsapp string) (*domain.Client, error) {
	normalized := phone.Normalize(whatsapp)
	if normalized == "" {
		return nil, domain.ErrClientNotFound
	}
	return s.clients.FindByWhatsApp(ctx, normalized)
}
