package handler

import (
	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
)

func toAccountInput(req accountRequest) ports.AccountInput {
	var profiles []domain.Profile
	if len(req.Profiles) > 0 {
		profiles = make([]domain.Profile, len(req.Profiles))
		for i, p := range req.Profiles {
			pin := p.PIN
			if pin == "" {
				pin = domain.DefaultProfilePIN
			}
			profiles[i] = domain.Profile{Name: p.Name, PIN: pin}
		}
	} else {
		profiles = domain.ParseProfiles(req.ProfilesText)
	}

	return ports.AccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Profiles: profiles,
	}
}

func toAccountResponse(a *domain.ServiceAccount) accountResponse {
	profiles := make([]profileSlotResponse, len(a.Profiles))
	for i, p := range a.Profiles {
		profiles[i] = profileSlotResponse{Name: p.Name, PIN: p.PIN}
	}
	return accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Status:    string(a.Status),
		Profiles:  profiles,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAccountSummaryResponse(s ports.AccountSummary) accountResponse {
	resp := toAccountResponse(s.Account)
	total, available := s.Slots.Total, s.Slots.Available
	resp.TotalSlots = &total
	resp.AvailableSlots = &available

	resp.Profiles = make([]profileSlotResponse, len(s.Slots.Profiles))
	for i, p := range s.Slots.Profiles {
		resp.Profiles[i] = profileSlotResponse{Name: p.Name, PIN: p.PIN, Occupied: p.Occupied}
	}
	return resp
}

func toClientResponse(c *domain.Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		WhatsApp:  c.WhatsApp,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toClientResponses(clients []*domain.Client) []clientResponse {
	out := make([]clientResponse, len(clients))
	for i, c := range clients {
		out[i] = toClientResponse(c)
	}
	return out
}

func toAssignmentResponse(a *domain.Assignment) assignmentResponse {
	return assignmentResponse{
		ID:            a.ID,
		ClientID:      a.ClientID,
		AccountID:     a.AccountID,
		ProfileName:   a.ProfileName,
		PIN:           a.PIN,
		AssignedDate:  a.AssignedDate,
		ExpiryDate:    a.ExpiryDate,
		PaymentStatus: string(a.PaymentStatus),
	}
}

func toAssignmentViewResponses(views []ports.AssignmentView) []assignmentViewResponse {
	out := make([]assignmentViewResponse, len(views))
	for i, v := range views {
		resp := assignmentViewResponse{
			assignmentResponse: toAssignmentResponse(v.Assignment),
			State:              v.State,
		}
		if v.Client.ID != "" {
			resp.Client = &clientRefResponse{ID: v.Client.ID, Name: v.Client.Name, WhatsApp: v.Client.WhatsApp}
		}
		if v.Account.ID != "" {
			resp.Account = &accountRefResponse{ID: v.Account.ID, Name: v.Account.Name, Email: v.Account.Email}
		}
		out[i] = resp
	}
	return out
}

func toDashboardResponse(d *ports.Dashboard) dashboardResponse {
	accounts := make([]accountResponse, len(d.Accounts))
	for i, s := range d.Accounts {
		accounts[i] = toAccountSummaryResponse(s)
	}
	return dashboardResponse{
		Clients:                 toClientResponses(d.Clients),
		ServiceAccounts:         accounts,
		ActiveAssignments:       toAssignmentViewResponses(d.Active),
		ExpiredAssignments:      toAssignmentViewResponses(d.Expired),
		ExpiringSoonAssignments: toAssignmentViewResponses(d.ExpiringSoon),
	}
}

func toEventResponses(events []*domain.AssignmentEvent) []eventResponse {
	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = eventResponse{
			ID:           e.ID,
			Type:         string(e.Type),
			AssignmentID: e.AssignmentID,
			ClientID:     e.ClientID,
			AccountID:    e.AccountID,
			ProfileName:  e.ProfileName,
			Detail:       e.Detail,
			OccurredAt:   e.OccurredAt,
		}
	}
	return out
}
