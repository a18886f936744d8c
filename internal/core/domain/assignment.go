package domain

import "time"

// PaymentStatus records whether the current period has been paid.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
)

// Toggled flips Paid and Pending.
func (p PaymentStatus) Toggled() PaymentStatus {
	if p == PaymentPaid {
		return PaymentPending
	}
	return PaymentPaid
}

const (
	// AssignmentTermDays is how long a new or renewed assignment lasts.
	AssignmentTermDays = 30
	// ExpiringSoonWindow is how close to expiry an active assignment is
	// reported as expiring soon.
	ExpiringSoonWindow = 5 * 24 * time.Hour
)

// Assignment grants one profile slot of one service account to one client
// until ExpiryDate. ProfileName is matched by name and PIN is a snapshot
// taken when the assignment was made.
type Assignment struct {
	ID            string        `json:"id"`
	ClientID      string        `json:"clientId"`
	AccountID     string        `json:"accountId"`
	ProfileName   string        `json:"profileName"`
	PIN           string        `json:"pin"`
	AssignedDate  time.Time     `json:"assignedDate"`
	ExpiryDate    time.Time     `json:"expiryDate"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ExpiryFrom returns the expiry for a term starting at t.
func ExpiryFrom(t time.Time) time.Time {
	return t.AddDate(0, 0, AssignmentTermDays)
}

// NewAssignment builds a paid assignment starting at now.
func NewAssignment(clientID, accountID, profileName, pin string, now time.Time) *Assignment {
	return &Assignment{
		ClientID:      clientID,
		AccountID:     accountID,
		ProfileName:   profileName,
		PIN:           pin,
		AssignedDate:  now,
		ExpiryDate:    ExpiryFrom(now),
		PaymentStatus: PaymentPaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsActive reports whether the assignment has not expired at now.
func (a *Assignment) IsActive(now time.Time) bool {
	return !a.ExpiryDate.Before(now)
}

// IsExpired reports whether the assignment expired before now.
func (a *Assignment) IsExpired(now time.Time) bool {
	return a.ExpiryDate.Before(now)
}

// IsExpiringSoon reports whether the assignment is active and expires
// within ExpiringSoonWindow of now.
func (a *Assignment) IsExpiringSoon(now time.Time) bool {
	return a.IsActive(now) && !a.ExpiryDate.After(now.Add(ExpiringSoonWindow))
}

// Renew restarts the term at now and marks it paid. The previous expiry is
// ignored.
func (a *Assignment) Renew(now time.Time) {
	a.ExpiryDate = ExpiryFrom(now)
	a.PaymentStatus = PaymentPaid
	a.UpdatedAt = now
}

// TogglePayment flips the payment status.
func (a *Assignment) TogglePayment(now time.Time) {
	a.PaymentStatus = a.PaymentStatus.Toggled()
	a.UpdatedAt = now
}

// Classification buckets assignments the way the admin dashboard shows them.
type Classification struct {
	Active       []*Assignment
	ExpiringSoon []*Assignment
	Expired      []*Assignment
}

// Classify splits assignments by their state at now. Expiring-soon entries
// also appear in Active.
func Classify(assignments []*Assignment, now time.Time) Classification {
	var c Classification
	for _, a := range assignments {
		switch {
		case a.IsExpired(now):
			c.Expired = append(c.Expired, a)
		default:
			c.Active = append(c.Active, a)
			if a.IsExpiringSoon(now) {
				c.ExpiringSoon = append(c.ExpiringSoon, a)
			}
		}
	}
	return c
}
