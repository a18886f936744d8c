package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
)

type AccountService struct {
	accounts    ports.AccountRepository
	assignments ports.AssignmentRepository
	cipher      ports.Cipher
	tx          ports.TxRunner
	audit       ports.AuditPublisher
	logger      zerolog.Logger
	now         func() time.Time
}

func NewAccountService(
	accounts ports.AccountRepository,
	assignments ports.AssignmentRepository,
	cipher ports.Cipher,
	tx ports.TxRunner,
	audit ports.AuditPublisher,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		accounts:    accounts,
		assignments: assignments,
		cipher:      cipher,
		tx:          tx,
		audit:       audit,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *AccountService) Create(ctx context.Context, input ports.AccountInput) (*domain.ServiceAccount, error) {
	if err := validateAccountInput(input); err != nil {
		return nil, err
	}

	encrypted, err := s.cipher.Encrypt(input.Password)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	now := s.now().UTC()
	created, err := s.accounts.Create(ctx, &domain.ServiceAccount{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Password:  encrypted,
		Profiles:  input.Profiles,
		Status:    domain.AccountActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", created.ID).Str("name", created.Name).Int("profiles", len(created.Profiles)).Msg("service account created")
	return created, nil
}

// Update replaces the account fields. The stored ciphertext is kept when the
// submitted password matches its decryption.
func (s *AccountService) Update(ctx context.Context, id string, input ports.AccountInput) (*domain.ServiceAccount, error) {
	if err := validateAccountInput(input); err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Password != s.cipher.Decrypt(account.Password) {
		encrypted, err := s.cipher.Encrypt(input.Password)
		if err != nil {
			return nil, fmt.Errorf("update account: %w", err)
		}
		account.Password = encrypted
		s.logger.Info().Str("account_id", id).Msg("service account password changed")
	}

	account.Name = strings.TrimSpace(input.Name)
	account.Email = strings.TrimSpace(input.Email)
	account.Profiles = input.Profiles
	account.UpdatedAt = s.now().UTC()

	return s.accounts.Update(ctx, account)
}

func (s *AccountService) RevealPassword(ctx context.Context, id string) (string, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.cipher.Decrypt(account.Password), nil
}

func (s *AccountService) ToggleStatus(ctx context.Context, id string) (*domain.ServiceAccount, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	account.Status = account.Status.Toggled()
	account.UpdatedAt = s.now().UTC()

	updated, err := s.accounts.Update(ctx, account)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", id).Str("status", string(updated.Status)).Msg("service account status toggled")
	return updated, nil
}

func (s *AccountService) UpdateProfilePIN(ctx context.Context, id, profileName, newPIN string) error {
	if !domain.ValidPIN(newPIN) {
		return domain.ErrInvalidPIN
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := account.SetProfilePIN(profileName, newPIN); err != nil {
		return err
	}
	account.UpdatedAt = s.now().UTC()

	if _, err := s.accounts.Update(ctx, account); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", id).Str("profile", profileName).Msg("profile pin updated")
	return nil
}

// Delete removes every assignment on the account before the account itself.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if _, err := s.accounts.FindByID(ctx, id); err != nil {
		return err
	}

	var removed int64
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := s.assignments.DeleteByAccount(ctx, id)
		if err != nil {
			return fmt.Errorf("delete account assignments: %w", err)
		}
		removed = n
		if err := s.accounts.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if removed > 0 {
		publishEvent(s.audit, domain.AssignmentEvent{
			Type:       domain.EventCascadeDeleted,
			AccountID:  id,
			Detail:     fmt.Sprintf("%d assignment(s) removed with account", removed),
			OccurredAt: s.now().UTC(),
		})
	}
	s.logger.Info().Str("account_id", id).Int64("assignments_removed", removed).Msg("service account deleted")
	return nil
}

// GeneratePIN returns a uniformly random PIN between 1000 and 9999.
func (s *AccountService) GeneratePIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("generate pin: %w", err)
	}
	return fmt.Sprintf("%d", 1000+n.Int64()), nil
}

func validateAccountInput(input ports.AccountInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return domain.NewValidationError("name, email and password are required")
	}
	for _, p := range input.Profiles {
		if strings.TrimSpace(p.Name) == "" {
			return domain.NewValidationError("profile names cannot be empty")
		}
	}
	return nil
}
