package handler

import "time"

// --- Requests ---

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name string `json:"name" validate:"required"`
	PIN  string `json:"pin"`
}

// accountRequest accepts profiles either structured or as the "Name:PIN"
// per-line text of the admin form. Structured profiles win when both are set.
type accountRequest struct {
	Name         string           `json:"name" validate:"required"`
	Email        string           `json:"email" validate:"required,email"`
	Password     string           `json:"password" validate:"required"`
	Profiles     []profileRequest `json:"profiles" validate:"dive"`
	ProfilesText string           `json:"profilesText"`
}

type profilePINRequest struct {
	ProfileName string `json:"profileName" validate:"required"`
	NewPIN      string `json:"newPin" validate:"required,len=4,numeric"`
}

type createClientRequest struct {
	Name     string `json:"name" validate:"required"`
	WhatsApp string `json:"whatsapp" validate:"required"`
}

type updateClientRequest struct {
	Name     string `json:"name" validate:"required"`
	WhatsApp string `json:"whatsapp" validate:"required"`
	Notes    string `json:"notes"`
}

type createAssignmentRequest struct {
	ClientName     string `json:"clientName" validate:"required"`
	ClientWhatsApp string `json:"clientWhatsapp" validate:"required"`
	AccountID      string `json:"accountId" validate:"required"`
	ProfileName    string `json:"profileName" validate:"required"`
	PIN            string `json:"pin"`
}

type releaseRequest struct {
	NewPIN string `json:"newPin" validate:"required,len=4,numeric"`
}

// --- Responses ---

type messageResponse struct {
	Message string `json:"message"`
}

type authCheckResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

type loginResponse struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type passwordResponse struct {
	Password string `json:"password"`
}

type pinResponse struct {
	PIN string `json:"pin"`
}

type profileSlotResponse struct {
	Name     string `json:"name"`
	PIN      string `json:"pin"`
	Occupied bool   `json:"occupied"`
}

type accountResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	Status         string                `json:"status"`
	Profiles       []profileSlotResponse `json:"profiles"`
	TotalSlots     *int                  `json:"totalSlots,omitempty"`
	AvailableSlots *int                  `json:"availableSlots,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

type clientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	WhatsApp  string    `json:"whatsapp"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type clientRefResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	WhatsApp string `json:"whatsapp"`
}

type accountRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type assignmentResponse struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"clientId"`
	AccountID     string    `json:"accountId"`
	ProfileName   string    `json:"profileName"`
	PIN           string    `json:"pin"`
	AssignedDate  time.Time `json:"assignedDate"`
	ExpiryDate    time.Time `json:"expiryDate"`
	PaymentStatus string    `json:"paymentStatus"`
}

// assignmentViewResponse is an assignment with its client and account
// embedded. Client or account is omitted when it no longer exists.
type assignmentViewResponse struct {
	assignmentResponse
	State   string              `json:"state"`
	Client  *clientRefResponse  `json:"client,omitempty"`
	Account *accountRefResponse `json:"account,omitempty"`
}

type dashboardResponse struct {
	Clients                 []clientResponse         `json:"clients"`
	ServiceAccounts         []accountResponse        `json:"serviceAccounts"`
	ActiveAssignments       []assignmentViewResponse `json:"activeAssignments"`
	ExpiredAssignments      []assignmentViewResponse `json:"expiredAssignments"`
	ExpiringSoonAssignments []assignmentViewResponse `json:"expiringSoonAssignments"`
}

type accessResponse struct {
	ClientName  string    `json:"clientName"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	ProfileName string    `json:"profileName"`
	PIN         string    `json:"pin"`
	ExpiryDate  time.Time `json:"expiryDate"`
}

type eventResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	AssignmentID string    `json:"assignmentId,omitempty"`
	ClientID     string    `json:"clientId,omitempty"`
	AccountID    string    `json:"accountId,omitempty"`
	ProfileName  string    `json:"profileName,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}
