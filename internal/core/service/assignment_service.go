package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
	"github.com/streamshare/subscription-manager/internal/pkg/metrics"
	"github.com/streamshare/subscription-manager/internal/pkg/phone"
)

const (
	createLockTTL  = 10 * time.Second
	expiredListCap = 50
)

type AssignmentService struct {
	assignments ports.AssignmentRepository
	clients     ports.ClientRepository
	accounts    ports.AccountRepository
	locker      ports.Locker
	audit       ports.AuditPublisher
	logger      zerolog.Logger
	now         func() time.Time
}

func NewAssignmentService(
	assignments ports.AssignmentRepository,
	clients ports.ClientRepository,
	accounts ports.AccountRepository,
	locker ports.Locker,
	audit ports.AuditPublisher,
	logger zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		clients:     clients,
		accounts:    accounts,
		locker:      locker,
		audit:       audit,
		logger:      logger,
		now:         time.Now,
	}
}

// Create assigns a profile to a client, registering the client on first use.
// A client may hold only one active assignment; the check runs under a
// per-client lock so concurrent requests for the same number serialise.
func (s *AssignmentService) Create(ctx context.Context, input ports.CreateAssignmentInput) (*domain.Assignment, error) {
	whatsapp := phone.Normalize(input.ClientWhatsApp)
	name := strings.TrimSpace(input.ClientName)
	if whatsapp == "" || name == "" || input.AccountID == "" || input.ProfileName == "" {
		return nil, domain.NewValidationError("clientName, clientWhatsapp, accountId and profileName are required")
	}

	release, err := s.lock(ctx, whatsapp)
	if err != nil {
		return nil, err
	}
	defer release()

	account, err := s.accounts.FindByID(ctx, input.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.AssignmentRejectionsTotal.WithLabelValues("account_not_found").Inc()
		}
		return nil, err
	}
	profile, ok := account.FindProfile(input.ProfileName)
	if !ok {
		metrics.AssignmentRejectionsTotal.WithLabelValues("profile_not_found").Inc()
		return nil, domain.ErrProfileNotFound
	}
	pin := input.PIN
	if pin == "" {
		pin = profile.PIN
	}

	now := s.now().UTC()
	client, err := s.clients.FindOrCreate(ctx, name, whatsapp, now)
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	existing, err := s.assignments.FindActiveByClient(ctx, client.ID, now)
	switch {
	case err == nil && existing != nil:
		metrics.AssignmentRejectionsTotal.WithLabelValues("duplicate_active").Inc()
		return nil, domain.ErrDuplicateActiveAssignment
	case err != nil && !errors.Is(err, domain.ErrNoActiveAssignment):
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	s.warnIfOccupied(ctx, account.ID, profile.Name, now)

	created, err := s.assignments.Create(ctx, domain.NewAssignment(client.ID, account.ID, profile.Name, pin, now))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create assignment")
		return nil, err
	}

	s.publish(domain.EventFor(domain.EventAssigned, created, now))
	s.logger.Info().
		Str("assignment_id", created.ID).
		Str("client_id", client.ID).
		Str("account_id", account.ID).
		Str("profile", created.ProfileName).
		Time("expiry", created.ExpiryDate).
		Msg("assignment created")
	return created, nil
}

func (s *AssignmentService) Renew(ctx context.Context, id string) (*domain.Assignment, error) {
	a, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	a.Renew(now)
	if err := s.assignments.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("renew assignment: %w", err)
	}

	s.publish(domain.EventFor(domain.EventRenewed, a, now))
	s.logger.Info().Str("assignment_id", id).Time("expiry", a.ExpiryDate).Msg("assignment renewed")
	return a, nil
}

func (s *AssignmentService) TogglePayment(ctx context.Context, id string) (*domain.Assignment, error) {
	a, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	a.TogglePayment(now)
	if err := s.assignments.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("toggle payment: %w", err)
	}

	ev := domain.EventFor(domain.EventPaymentToggled, a, now)
	ev.Detail = string(a.PaymentStatus)
	s.publish(ev)
	return a, nil
}

func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	a, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(domain.EventFor(domain.EventDeleted, a, s.now().UTC()))
	s.logger.Info().Str("assignment_id", id).Msg("assignment deleted")
	return nil
}

// Release rotates the PIN of the assignment's profile and then deletes the
// assignment so the slot can be handed to someone else.
func (s *AssignmentService) Release(ctx context.Context, id, newPIN string) error {
	if !domain.ValidPIN(newPIN) {
		return domain.ErrInvalidPIN
	}

	a, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	account, err := s.accounts.FindByID(ctx, a.AccountID)
	if err != nil {
		return err
	}
	if err := account.SetProfilePIN(a.ProfileName, newPIN); err != nil {
		return err
	}

	now := s.now().UTC()
	account.UpdatedAt = now
	if _, err := s.accounts.Update(ctx, account); err != nil {
		return fmt.Errorf("release profile: %w", err)
	}
	if err := s.assignments.Delete(ctx, id); err != nil {
		return fmt.Errorf("release profile: %w", err)
	}

	s.publish(domain.EventFor(domain.EventReleased, a, now))
	s.logger.Info().Str("assignment_id", id).Str("account_id", account.ID).Str("profile", a.ProfileName).Msg("profile released")
	return nil
}

// Dashboard gathers clients, accounts with slot usage and the assignment
// buckets shown by the admin panel.
func (s *AssignmentService) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	now := s.now().UTC()

	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: clients: %w", err)
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: accounts: %w", err)
	}
	active, err := s.assignments.List(ctx, ports.AssignmentFilter{ExpiresFrom: now, Sort: ports.SortExpiryAsc})
	if err != nil {
		return nil, fmt.Errorf("dashboard: active: %w", err)
	}
	expired, err := s.assignments.List(ctx, ports.AssignmentFilter{
		ExpiredBefore: now,
		Sort:          ports.SortExpiryDesc,
		Limit:         expiredListCap,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: expired: %w", err)
	}

	// Classify keeps input order: active soonest first, expired newest first.
	all := make([]*domain.Assignment, 0, len(active)+len(expired))
	all = append(all, active...)
	all = append(all, expired...)
	buckets := domain.Classify(all, now)

	summaries := make([]ports.AccountSummary, len(accounts))
	for i, acc := range accounts {
		summaries[i] = ports.AccountSummary{Account: acc, Slots: domain.AllocateSlots(acc, buckets.Active)}
	}

	byClient := indexClients(clients)
	byAccount := indexAccounts(accounts)
	return &ports.Dashboard{
		Clients:      clients,
		Accounts:     summaries,
		Active:       toViews(buckets.Active, byClient, byAccount, now),
		Expired:      toViews(buckets.Expired, byClient, byAccount, now),
		ExpiringSoon: toViews(buckets.ExpiringSoon, byClient, byAccount, now),
	}, nil
}

// lock takes the per-client creation lock. A store failure is logged and the
// request goes ahead unlocked.
func (s *AssignmentService) lock(ctx context.Context, whatsapp string) (func(), error) {
	release, ok, err := s.locker.Acquire(ctx, "assignment:create:"+whatsapp, createLockTTL)
	if err != nil {
		s.logger.Warn().Err(err).Str("whatsapp", whatsapp).Msg("assignment lock unavailable, proceeding without it")
		return func() {}, nil
	}
	if !ok {
		metrics.AssignmentRejectionsTotal.WithLabelValues("in_progress").Inc()
		return nil, domain.ErrAssignmentInProgress
	}
	return release, nil
}

// warnIfOccupied records a double booking. Occupied profiles are not
// rejected here; the admin form is what disables them.
func (s *AssignmentService) warnIfOccupied(ctx context.Context, accountID, profileName string, now time.Time) {
	active, err := s.assignments.List(ctx, ports.AssignmentFilter{AccountID: accountID, ExpiresFrom: now})
	if err != nil {
		s.logger.Debug().Err(err).Msg("occupancy check skipped")
		return
	}
	if domain.IsOccupied(accountID, profileName, active) {
		metrics.DoubleBookingsTotal.Inc()
		s.logger.Warn().Str("account_id", accountID).Str("profile", profileName).Msg("profile already occupied, assigning anyway")
	}
}

func (s *AssignmentService) publish(ev domain.AssignmentEvent) {
	publishEvent(s.audit, ev)
}
