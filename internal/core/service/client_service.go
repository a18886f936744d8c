package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
	"github.com/streamshare/subscription-manager/internal/pkg/phone"
)

const (
	minSearchTerm = 2
	searchLimit   = 5
)

type ClientService struct {
	clients     ports.ClientRepository
	assignments ports.AssignmentRepository
	accounts    ports.AccountRepository
	tx          ports.TxRunner
	audit       ports.AuditPublisher
	logger      zerolog.Logger
	now         func() time.Time
}

func NewClientService(
	clients ports.ClientRepository,
	assignments ports.AssignmentRepository,
	accounts ports.AccountRepository,
	tx ports.TxRunner,
	audit ports.AuditPublisher,
	logger zerolog.Logger,
) *ClientService {
	return &ClientService{
		clients:     clients,
		assignments: assignments,
		accounts:    accounts,
		tx:          tx,
		audit:       audit,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *ClientService) Create(ctx context.Context, input ports.CreateClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(input.Name)
	whatsapp := phone.Normalize(input.WhatsApp)
	if name == "" || whatsapp == "" {
		return nil, domain.NewValidationError("name and whatsapp are required")
	}

	now := s.now().UTC()
	created, err := s.clients.Create(ctx, &domain.Client{
		Name:      name,
		WhatsApp:  whatsapp,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("client_id", created.ID).Str("whatsapp", created.WhatsApp).Msg("client created")
	return created, nil
}

func (s *ClientService) Update(ctx context.Context, id string, input ports.UpdateClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(input.Name)
	whatsapp := phone.Normalize(input.WhatsApp)
	if name == "" || whatsapp == "" {
		return nil, domain.NewValidationError("name and whatsapp are required")
	}

	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	client.Name = name
	client.WhatsApp = whatsapp
	client.Notes = input.Notes
	client.UpdatedAt = s.now().UTC()

	return s.clients.Update(ctx, client)
}

// Delete removes every assignment of the client before the client itself.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	if _, err := s.clients.FindByID(ctx, id); err != nil {
		return err
	}

	var removed int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := s.assignments.DeleteByClient(ctx, id)
		if err != nil {
			return fmt.Errorf("delete client assignments: %w", err)
		}
		removed = n
		if err := s.clients.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete client: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if removed > 0 {
		publishEvent(s.audit, domain.AssignmentEvent{
			Type:       domain.EventCascadeDeleted,
			ClientID:   id,
			Detail:     fmt.Sprintf("%d assignment(s) removed with client", removed),
			OccurredAt: s.now().UTC(),
		})
	}
	s.logger.Info().Str("client_id", id).Int64("assignments_removed", removed).Msg("client deleted")
	return nil
}

// Search returns up to five clients whose name or whatsapp contains term.
// Terms shorter than two characters return nothing.
func (s *ClientService) Search(ctx context.Context, term string) ([]*domain.Client, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < minSearchTerm {
		return []*domain.Client{}, nil
	}
	return s.clients.Search(ctx, term, searchLimit)
}

func (s *ClientService) History(ctx context.Context, id string) ([]ports.AssignmentView, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	list, err := s.assignments.List(ctx, ports.AssignmentFilter{ClientID: id, Sort: ports.SortExpiryDesc})
	if err != nil {
		return nil, fmt.Errorf("client history: %w", err)
	}

	accounts, err := accountsFor(ctx, s.accounts, list)
	if err != nil {
		return nil, fmt.Errorf("client history: %w", err)
	}

	clients := map[string]*domain.Client{client.ID: client}
	return toViews(list, clients, accounts, s.now().UTC()), nil
}
