package domain

import "time"

// AssignmentEventType names a lifecycle change of an assignment.
type AssignmentEventType string

const (
	EventAssigned       AssignmentEventType = "assigned"
	EventRenewed        AssignmentEventType = "renewed"
	EventPaymentToggled AssignmentEventType = "payment_toggled"
	EventReleased       AssignmentEventType = "released"
	EventDeleted        AssignmentEventType = "deleted"
	EventCascadeDeleted AssignmentEventType = "cascade_deleted"
)

// AssignmentEvent is an audit record of a lifecycle change.
type AssignmentEvent struct {
	ID           string              `json:"id"`
	Type         AssignmentEventType `json:"type"`
	AssignmentID string              `json:"assignmentId,omitempty"`
	ClientID     string              `json:"clientId,omitempty"`
	AccountID    string              `json:"accountId,omitempty"`
	ProfileName  string              `json:"profileName,omitempty"`
	Detail       string              `json:"detail,omitempty"`
	OccurredAt   time.Time           `json:"occurredAt"`
}

// EventFor builds an event describing a change to a.
func EventFor(t AssignmentEventType, a *Assignment, now time.Time) AssignmentEvent {
	return AssignmentEvent{
		Type:         t,
		AssignmentID: a.ID,
		ClientID:     a.ClientID,
		AccountID:    a.AccountID,
		ProfileName:  a.ProfileName,
		OccurredAt:   now,
	}
}
