package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
)

// fixture wires every service against the same in-memory stores.
type fixture struct {
	clients     *stubClientRepo
	accounts    *stubAccountRepo
	assignments *stubAssignmentRepo
	locker      *stubLocker
	tx          *stubTx
	audit       *stubPublisher
	cipher      *stubCipher

	assignmentSvc *AssignmentService
	clientSvc     *ClientService
	accountSvc    *AccountService
	accessSvc     *AccessService
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		clients:     newStubClientRepo(),
		accounts:    newStubAccountRepo(),
		assignments: newStubAssignmentRepo(),
		locker:      newStubLocker(),
		tx:          &stubTx{},
		audit:       &stubPublisher{},
		cipher:      &stubCipher{},
	}
	log := zerolog.Nop()

	f.assignmentSvc = NewAssignmentService(f.assignments, f.clients, f.accounts, f.locker, f.audit, log)
	f.assignmentSvc.now = clock(now)
	f.clientSvc = NewClientService(f.clients, f.assignments, f.accounts, f.tx, f.audit, log)
	f.clientSvc.now = clock(now)
	f.accountSvc = NewAccountService(f.accounts, f.assignments, f.cipher, f.tx, f.audit, log)
	f.accountSvc.now = clock(now)
	f.accessSvc = NewAccessService(f.clients, f.accounts, f.assignments, f.cipher)
	f.accessSvc.now = clock(now)
	return f
}

func (f *fixture) seedAccount(t *testing.T, name string, profiles ...domain.Profile) *domain.ServiceAccount {
	t.Helper()
	acc, err := f.accountSvc.Create(context.Background(), ports.AccountInput{
		Name:     name,
		Email:    name + "@example.com",
		Password: "pw-" + name,
		Profiles: profiles,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return acc
}

func (f *fixture) seedAssignment(clientID, accountID, profile string, expiry time.Time) *domain.Assignment {
	a, _ := f.assignments.Create(context.Background(), &domain.Assignment{
		ClientID:      clientID,
		AccountID:     accountID,
		ProfileName:   profile,
		PIN:           "0000",
		AssignedDate:  expiry.AddDate(0, 0, -domain.AssignmentTermDays),
		ExpiryDate:    expiry,
		PaymentStatus: domain.PaymentPaid,
	})
	return a
}

func createInput(accountID string) ports.CreateAssignmentInput {
	return ports.CreateAssignmentInput{
		ClientName:     "Ana",
		ClientWhatsApp: "0987111222",
		AccountID:      accountID,
		ProfileName:    "P1",
		PIN:            "1111",
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestAssignmentService_Create_Success(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1", domain.Profile{Name: "P1", PIN: "1111"})

	a, err := f.assignmentSvc.Create(context.Background(), createInput(acc.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if want := fixedNow.AddDate(0, 0, 30); !a.ExpiryDate.Equal(want) {
		t.Errorf("expiry = %v, want %v", a.ExpiryDate, want)
	}
	if !a.AssignedDate.Equal(fixedNow) {
		t.Errorf("assigned date = %v, want %v", a.AssignedDate, fixedNow)
	}
	if a.PaymentStatus != domain.PaymentPaid {
		t.Errorf("payment = %s, want Paid", a.PaymentStatus)
	}
	if a.ProfileName != "P1" || a.PIN != "1111" {
		t.Errorf("unexpected slot: %s/%s", a.ProfileName, a.PIN)
	}

	client, err := f.clients.FindByWhatsApp(context.Background(), "595987111222")
	if err != nil {
		t.Fatalf("client should be registered on first assignment: %v", err)
	}
	if a.ClientID != client.ID {
		t.Errorf("assignment client = %s, want %s", a.ClientID, client.ID)
	}
	if got := f.audit.types(); len(got) != 1 || got[0] != domain.EventAssigned {
		t.Errorf("unexpected audit events: %v", got)
	}
	if f.locker.released != 1 || len(f.locker.held) != 0 {
		t.Errorf("lock should be released after create")
	}
}

func TestAssignmentService_Create_DuplicateActive(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1", domain.Profile{Name: "P1", PIN: "1111"}, domain.Profile{Name: "P2", PIN: "2222"})

	if _, err := f.assignmentSvc.Create(context.Background(), createInput(acc.ID)); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := createInput(acc.ID)
	second.ProfileName = "P2"
	second.ClientWhatsApp = "+595 987 111 222" // same client, other format
	_, err := f.assignmentSvc.Create(context.Background(), second)

	if !errors.Is(err, domain.ErrDuplicateActiveAssignment) {
		t.Fatalf("expected ErrDuplicateActiveAssignment, got %v", err)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("duplicate must be a validation error")
	}
	if n := len(f.assignments.byID); n != 1 {
		t.Fatalf("expected 1 assignment, got %d", n)
	}
}

func TestAssignmentService_Create_AfterExpiryAllowed(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1", domain.Profile{Name: "P1", PIN: "1111"})
	client, _ := f.clients.Create(context.Background(), &domain.Client{Name: "Ana", WhatsApp: "595987111222"})
	f.seedAssignment(client.ID, acc.ID, "P1", fixedNow.Add(-time.Hour))

	if _, err := f.assignmentSvc.Create(context.Background(), createInput(acc.ID)); err != nil {
		t.Fatalf("expired assignment must not block a new one: %v", err)
	}
}

func TestAssignmentService_Create_UsesProfilePINWhenEmpty(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1", domain.Profile{Name: "P1", PIN: "4321"})

	in := createInput(acc.ID)
	in.PIN = ""
	a, err := f.assignmentSvc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.PIN != "4321" {
		t.Fatalf("expected profile pin, got %q", a.PIN)
	}
}

func TestAssignmentService_Create_UnknownAccountOrProfile(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1", domain.Profile{Name: "P1", PIN: "1111"})

	if _, err := f.assignmentSvc.Create(context.Background(), createInput("missing")); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}

	in := createInput(acc.ID)
	in.ProfileName = "P9"
	if _, err := f.assignmentSvc.Create(context.Background(), in); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
	if len(f.clients.byID) != 0 {
		t.Errorf("no client should be registered for a rejected request")
	}
}

func TestAssignmentService_Create_Validation(t *testing.T) {
	f := newFixture(fixedNow)
	in := createInput("account-1")
	in.ClientWhatsApp = "---"

	if _, err := f.assignmentSvc.Create(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssignmentService_Create_LockHeld(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1", domain.Profile{Name: "P1", PIN: "1111"})
	f.locker.held["assignment:create:595987111222"] = true

	_, err := f.assignmentSvc.Create(context.Background(), createInput(acc.ID))
	if !errors.Is(err, domain.ErrAssignmentInProgress) {
		t.Fatalf("expected ErrAssignmentInProgress, got %v", err)
	}
}

func TestAssignmentService_Create_LockErrorProceeds(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1", domain.Profile{Name: "P1", PIN: "1111"})
	f.locker.acquireErr = errors.New("redis timeout")

	if _, err := f.assignmentSvc.Create(context.Background(), createInput(acc.ID)); err != nil {
		t.Fatalf("expected create to proceed without lock, got %v", err)
	}
}

func TestAssignmentService_Create_OccupiedProfileNotRejected(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1", domain.Profile{Name: "P1", PIN: "1111"})
	f.seedAssignment("someone-else", acc.ID, "P1", fixedNow.AddDate(0, 0, 10))

	if _, err := f.assignmentSvc.Create(context.Background(), createInput(acc.ID)); err != nil {
		t.Fatalf("occupied profile is only reported, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Renew / payment / delete / release
// ---------------------------------------------------------------------------

func TestAssignmentService_Renew_AnchorsToNow(t *testing.T) {
	for _, tc := range []struct {
		name   string
		expiry time.Time
	}{
		{"expired long ago", fixedNow.AddDate(0, -3, 0)},
		{"still active", fixedNow.AddDate(0, 0, 20)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(fixedNow)
			a := f.seedAssignment("c", "acc", "P1", tc.expiry)
			stored := f.assignments.byID[a.ID]
			stored.PaymentStatus = domain.PaymentPending

			renewed, err := f.assignmentSvc.Renew(context.Background(), a.ID)
			if err != nil {
				t.Fatalf("Renew: %v", err)
			}
			want := fixedNow.AddDate(0, 0, 30)
			if !renewed.ExpiryDate.Equal(want) || !f.assignments.byID[a.ID].ExpiryDate.Equal(want) {
				t.Fatalf("expiry = %v, want %v", renewed.ExpiryDate, want)
			}
			if f.assignments.byID[a.ID].PaymentStatus != domain.PaymentPaid {
				t.Fatalf("renew must mark the assignment paid")
			}
		})
	}
}

func TestAssignmentService_Renew_NotFound(t *testing.T) {
	f := newFixture(fixedNow)
	if _, err := f.assignmentSvc.Renew(context.Background(), "nope"); !errors.Is(err, domain.ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestAssignmentService_TogglePayment_Twice(t *testing.T) {
	f := newFixture(fixedNow)
	a := f.seedAssignment("c", "acc", "P1", fixedNow.AddDate(0, 0, 3))

	first, err := f.assignmentSvc.TogglePayment(context.Background(), a.ID)
	if err != nil || first.PaymentStatus != domain.PaymentPending {
		t.Fatalf("first toggle: %v %v", first, err)
	}
	second, err := f.assignmentSvc.TogglePayment(context.Background(), a.ID)
	if err != nil || second.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("second toggle: %v %v", second, err)
	}
}

func TestAssignmentService_Delete(t *testing.T) {
	f := newFixture(fixedNow)
	a := f.seedAssignment("c", "acc", "P1", fixedNow.AddDate(0, 0, 3))

	if err := f.assignmentSvc.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := f.assignments.byID[a.ID]; ok {
		t.Fatal("assignment still stored")
	}
	if err := f.assignmentSvc.Delete(context.Background(), a.ID); !errors.Is(err, domain.ErrAssignmentNotFound) {
		t.Fatalf("expected ErrAssignmentNotFound on second delete, got %v", err)
	}
}

func TestAssignmentService_Release(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1", domain.Profile{Name: "P1", PIN: "1111"}, domain.Profile{Name: "P2", PIN: "2222"})
	a := f.seedAssignment("c", acc.ID, "P2", fixedNow.Add(-24*time.Hour))

	if err := f.assignmentSvc.Release(context.Background(), a.ID, "9876"); err != nil {
		t.Fatalf("Release: %v", err)
	}

	stored, _ := f.accounts.FindByID(context.Background(), acc.ID)
	if p, _ := stored.FindProfile("P2"); p.PIN != "9876" {
		t.Errorf("pin = %s, want 9876", p.PIN)
	}
	if p, _ := stored.FindProfile("P1"); p.PIN != "1111" {
		t.Errorf("other profile touched: %s", p.PIN)
	}
	if _, ok := f.assignments.byID[a.ID]; ok {
		t.Errorf("released assignment should be deleted")
	}
}

func TestAssignmentService_Release_InvalidPIN(t *testing.T) {
	f := newFixture(fixedNow)
	a := f.seedAssignment("c", "acc", "P1", fixedNow)

	for _, pin := range []string{"", "123", "12345", "12a4"} {
		if err := f.assignmentSvc.Release(context.Background(), a.ID, pin); !errors.Is(err, domain.ErrInvalidPIN) {
			t.Errorf("pin %q: expected ErrInvalidPIN, got %v", pin, err)
		}
	}
	if _, ok := f.assignments.byID[a.ID]; !ok {
		t.Errorf("assignment must survive a rejected release")
	}
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func TestAssignmentService_Dashboard(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1",
		domain.Profile{Name: "A", PIN: "1"},
		domain.Profile{Name: "B", PIN: "2"},
		domain.Profile{Name: "C", PIN: "3"},
	)
	ana, _ := f.clients.Create(context.Background(), &domain.Client{Name: "Ana", WhatsApp: "595981"})
	beto, _ := f.clients.Create(context.Background(), &domain.Client{Name: "Beto", WhatsApp: "595982"})

	soon := f.seedAssignment(ana.ID, acc.ID, "B", fixedNow.AddDate(0, 0, 3))
	gone := f.seedAssignment(beto.ID, acc.ID, "A", fixedNow.AddDate(0, 0, -1))

	d, err := f.assignmentSvc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if len(d.Clients) != 2 || len(d.Accounts) != 1 {
		t.Fatalf("unexpected sizes: %d clients, %d accounts", len(d.Clients), len(d.Accounts))
	}
	if len(d.Active) != 1 || d.Active[0].Assignment.ID != soon.ID {
		t.Errorf("active = %+v", d.Active)
	}
	if len(d.ExpiringSoon) != 1 || d.ExpiringSoon[0].Assignment.ID != soon.ID {
		t.Errorf("expiring soon = %+v", d.ExpiringSoon)
	}
	if len(d.Expired) != 1 || d.Expired[0].Assignment.ID != gone.ID {
		t.Errorf("expired = %+v", d.Expired)
	}
	if d.ExpiringSoon[0].Client.Name != "Ana" || d.ExpiringSoon[0].Account.Name != "Netflix1" {
		t.Errorf("view not joined: %+v", d.ExpiringSoon[0])
	}
	if d.ExpiringSoon[0].State != ports.StateExpiringSoon || d.Expired[0].State != ports.StateExpired {
		t.Errorf("unexpected states: %s %s", d.ExpiringSoon[0].State, d.Expired[0].State)
	}

	slots := d.Accounts[0].Slots
	if slots.Available != 2 {
		t.Errorf("available = %d, want 2", slots.Available)
	}
	for _, p := range slots.Profiles {
		if p.Occupied != (p.Name == "B") {
			t.Errorf("profile %s occupied = %v", p.Name, p.Occupied)
		}
	}
}

func TestAssignmentService_Dashboard_BucketOrder(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1", domain.Profile{Name: "A", PIN: "1111"})
	ctx := context.Background()

	var ids []string
	for i, days := range []int{20, 4, 2, -1, -10} {
		c, _ := f.clients.Create(ctx, &domain.Client{Name: "c", WhatsApp: "59598100" + string(rune('0'+i))})
		a := f.seedAssignment(c.ID, acc.ID, "A", fixedNow.AddDate(0, 0, days))
		ids = append(ids, a.ID)
	}

	d, err := f.assignmentSvc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	assertOrder := func(name string, views []ports.AssignmentView, want ...string) {
		t.Helper()
		if len(views) != len(want) {
			t.Fatalf("%s: got %d entries, want %d", name, len(views), len(want))
		}
		for i, v := range views {
			if v.Assignment.ID != want[i] {
				t.Errorf("%s[%d] = %s, want %s", name, i, v.Assignment.ID, want[i])
			}
		}
	}
	assertOrder("active", d.Active, ids[2], ids[1], ids[0])
	assertOrder("expiring soon", d.ExpiringSoon, ids[2], ids[1])
	assertOrder("expired", d.Expired, ids[3], ids[4])

	if got := d.Accounts[0].Slots.Available; got != -2 {
		t.Errorf("available = %d, want -2 for three active on one profile", got)
	}
}

func TestAssignmentService_Create_NewClientUsesClock(t *testing.T) {
	f := newFixture(fixedNow)
	acc := f.seedAccount(t, "Netflix1", domain.Profile{Name: "P1", PIN: "1111"})

	a, err := f.assignmentSvc.Create(context.Background(), createInput(acc.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	client, err := f.clients.FindByID(context.Background(), a.ClientID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !client.CreatedAt.Equal(a.AssignedDate) || !client.UpdatedAt.Equal(a.AssignedDate) {
		t.Errorf("client stamped %v/%v, assignment at %v", client.CreatedAt, client.UpdatedAt, a.AssignedDate)
	}
}
