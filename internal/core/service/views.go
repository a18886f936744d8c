package service

import (
	"context"
	"time"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
	"github.com/streamshare/subscription-manager/internal/pkg/metrics"
)

func publishEvent(p ports.AuditPublisher, ev domain.AssignmentEvent) {
	metrics.AssignmentEventsTotal.WithLabelValues(string(ev.Type)).Inc()
	p.Publish(ev)
}

func stateOf(a *domain.Assignment, now time.Time) string {
	switch {
	case a.IsExpired(now):
		return ports.StateExpired
	case a.IsExpiringSoon(now):
		return ports.StateExpiringSoon
	default:
		return ports.StateActive
	}
}

func clientRef(c *domain.Client) ports.ClientRef {
	if c == nil {
		return ports.ClientRef{}
	}
	return ports.ClientRef{ID: c.ID, Name: c.Name, WhatsApp: c.WhatsApp}
}

func accountRef(a *domain.ServiceAccount) ports.AccountRef {
	if a == nil {
		return ports.AccountRef{}
	}
	return ports.AccountRef{ID: a.ID, Name: a.Name, Email: a.Email}
}

func indexClients(clients []*domain.Client) map[string]*domain.Client {
	m := make(map[string]*domain.Client, len(clients))
	for _, c := range clients {
		m[c.ID] = c
	}
	return m
}

func indexAccounts(accounts []*domain.ServiceAccount) map[string]*domain.ServiceAccount {
	m := make(map[string]*domain.ServiceAccount, len(accounts))
	for _, a := range accounts {
		m[a.ID] = a
	}
	return m
}

// toViews joins assignments with the client and account maps.
func toViews(assignments []*domain.Assignment, clients map[string]*domain.Client, accounts map[string]*domain.ServiceAccount, now time.Time) []ports.AssignmentView {
	out := make([]ports.AssignmentView, len(assignments))
	for i, a := range assignments {
		out[i] = ports.AssignmentView{
			Assignment: a,
			Client:     clientRef(clients[a.ClientID]),
			Account:    accountRef(accounts[a.AccountID]),
			State:      stateOf(a, now),
		}
	}
	return out
}

// accountsFor loads the accounts referenced by assignments.
func accountsFor(ctx context.Context, repo ports.AccountRepository, assignments []*domain.Assignment) (map[string]*domain.ServiceAccount, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.AccountID]; ok {
			continue
		}
		seen[a.AccountID] = struct{}{}
		ids = append(ids, a.AccountID)
	}
	if len(ids) == 0 {
		return map[string]*domain.ServiceAccount{}, nil
	}
	accounts, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return indexAccounts(accounts), nil
}
