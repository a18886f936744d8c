package domain

// ProfileSlot is a profile of an account together with its occupancy.
type ProfileSlot struct {
	Name     string `json:"name"`
	PIN      string `json:"pin"`
	Occupied bool   `json:"occupied"`
}

// SlotAllocation summarises which profiles of one account are taken.
type SlotAllocation struct {
	AccountID string        `json:"accountId"`
	Total     int           `json:"total"`
	Available int           `json:"available"`
	Profiles  []ProfileSlot `json:"profiles"`
}

// AllocateSlots computes slot usage of account from the assignments that are
// currently active. Assignments for other accounts are ignored. Available is
// the profile count minus the number of active assignments on the account, so
// it goes negative when a profile has been booked twice.
func AllocateSlots(account *ServiceAccount, active []*Assignment) SlotAllocation {
	taken := make(map[string]struct{})
	used := 0
	for _, a := range active {
		if a.AccountID != account.ID {
			continue
		}
		used++
		taken[a.ProfileName] = struct{}{}
	}

	slots := make([]ProfileSlot, len(account.Profiles))
	for i, p := range account.Profiles {
		_, occupied := taken[p.Name]
		slots[i] = ProfileSlot{Name: p.Name, PIN: p.PIN, Occupied: occupied}
	}

	return SlotAllocation{
		AccountID: account.ID,
		Total:     len(account.Profiles),
		Available: len(account.Profiles) - used,
		Profiles:  slots,
	}
}

// IsOccupied reports whether profileName of account is held by one of the
// active assignments.
func IsOccupied(accountID, profileName string, active []*Assignment) bool {
	for _, a := range active {
		if a.AccountID == accountID && a.ProfileName == profileName {
			return true
		}
	}
	return false
}
