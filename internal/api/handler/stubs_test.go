package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
)

// newContext builds an echo context with the validator installed. Path
// params are given as name/value pairs.
func newContext(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

type stubAuthService struct {
	loginFn  func(ctx context.Context, password string) (string, *domain.Session, error)
	logoutFn func(ctx context.Context, token string) error
}

func (s *stubAuthService) Login(ctx context.Context, password string) (string, *domain.Session, error) {
	return s.loginFn(ctx, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrSessionRequired
}

type stubAccountService struct {
	createFn    func(ctx context.Context, input ports.AccountInput) (*domain.ServiceAccount, error)
	updatePINFn func(ctx context.Context, id, profileName, newPIN string) error
	revealFn    func(ctx context.Context, id string) (string, error)
}

func (s *stubAccountService) Create(ctx context.Context, input ports.AccountInput) (*domain.ServiceAccount, error) {
	return s.createFn(ctx, input)
}

func (s *stubAccountService) Update(context.Context, string, ports.AccountInput) (*domain.ServiceAccount, error) {
	panic("not used")
}

func (s *stubAccountService) RevealPassword(ctx context.Context, id string) (string, error) {
	return s.revealFn(ctx, id)
}

func (s *stubAccountService) ToggleStatus(context.Context, string) (*domain.ServiceAccount, error) {
	panic("not used")
}

func (s *stubAccountService) UpdateProfilePIN(ctx context.Context, id, profileName, newPIN string) error {
	return s.updatePINFn(ctx, id, profileName, newPIN)
}

func (s *stubAccountService) Delete(context.Context, string) error { panic("not used") }

func (s *stubAccountService) GeneratePIN() (string, error) { return "4821", nil }

type stubClientService struct {
	searchFn func(ctx context.Context, term string) ([]*domain.Client, error)
}

func (s *stubClientService) Create(_ context.Context, input ports.CreateClientInput) (*domain.Client, error) {
	return &domain.Client{ID: "c1", Name: input.Name, WhatsApp: input.WhatsApp}, nil
}

func (s *stubClientService) Update(context.Context, string, ports.UpdateClientInput) (*domain.Client, error) {
	panic("not used")
}

func (s *stubClientService) Delete(context.Context, string) error { return domain.ErrClientNotFound }

func (s *stubClientService) Search(ctx context.Context, term string) ([]*domain.Client, error) {
	return s.searchFn(ctx, term)
}

func (s *stubClientService) History(context.Context, string) ([]ports.AssignmentView, error) {
	return nil, nil
}

type stubAssignmentService struct {
	createFn    func(ctx context.Context, input ports.CreateAssignmentInput) (*domain.Assignment, error)
	releaseFn   func(ctx context.Context, id, newPIN string) error
	dashboardFn func(ctx context.Context) (*ports.Dashboard, error)
}

func (s *stubAssignmentService) Create(ctx context.Context, input ports.CreateAssignmentInput) (*domain.Assignment, error) {
	return s.createFn(ctx, input)
}

func (s *stubAssignmentService) Renew(context.Context, string) (*domain.Assignment, error) {
	panic("not used")
}

func (s *stubAssignmentService) TogglePayment(context.Context, string) (*domain.Assignment, error) {
	panic("not used")
}

func (s *stubAssignmentService) Delete(context.Context, string) error { panic("not used") }

func (s *stubAssignmentService) Release(ctx context.Context, id, newPIN string) error {
	return s.releaseFn(ctx, id, newPIN)
}

func (s *stubAssignmentService) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	return s.dashboardFn(ctx)
}

type stubAccessService struct {
	accessFn func(ctx context.Context, whatsapp string) (*ports.AccessDetail, error)
}

func (s *stubAccessService) Access(ctx context.Context, whatsapp string) (*ports.AccessDetail, error) {
	return s.accessFn(ctx, whatsapp)
}

func (s *stubAccessService) History(context.Context, string) ([]ports.AssignmentView, error) {
	return nil, nil
}

type stubAuditService struct {
	gotLimit int
}

func (s *stubAuditService) Record(context.Context, domain.AssignmentEvent) error { return nil }

func (s *stubAuditService) Recent(_ context.Context, limit int) ([]*domain.AssignmentEvent, error) {
	s.gotLimit = limit
	return []*domain.AssignmentEvent{{ID: "01J", Type: domain.EventRenewed}}, nil
}
