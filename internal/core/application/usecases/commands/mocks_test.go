package commands_test

import (
	"context"
	"testing"
	"time"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) GetByTrackingID(ctx context.Context, trackingID parcel.TrackingID) (*parcel.Parcel, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

type MockAccountRepository struct{ mock.Mock }

func (m *MockAccountRepository) Get(ctx context.Context, id kernel.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ParcelRepository() ports.ParcelRepository {
	args := m.Called()
	return args.Get(0).(ports.ParcelRepository)
}

func (m *MockUoW) AccountRepository() ports.AccountRepository {
	args := m.Called()
	return args.Get(0).(ports.AccountRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyParcelCreated(ctx context.Context, event ports.ParcelCreatedEvent) {
	m.Called(ctx, event)
}

func (m *MockNotifier) NotifyStatusChanged(ctx context.Context, event ports.StatusChangedEvent) {
	m.Called(ctx, event)
}

// Test fixtures shared by the command handler tests.

func senderAccount(id kernel.UUID) *account.Account {
	return &account.Account{
		ID:    id,
		Email: "sender@example.com",
		Name:  "Jordan Smith",
		Phone: "+15551234567",
		Address: kernel.Address{
			Street:  "12 Harbor Lane",
			City:    "Portsmouth",
			Country: "US",
		},
		Role: account.RoleSender,
	}
}

func receiverAccount(id kernel.UUID) *account.Account {
	return &account.Account{
		ID:    id,
		Email: "receiver@example.com",
		Name:  "Robin Hale",
		Role:  account.RoleReceiver,
	}
}

func adminAccount(id kernel.UUID) *account.Account {
	return &account.Account{
		ID:    id,
		Email: "admin@example.com",
		Name:  "Morgan Lee",
		Role:  account.RoleAdmin,
	}
}

func receiverContactInfo() parcel.ContactInfo {
	return parcel.ContactInfo{
		Name:  "Robin Hale",
		Email: "receiver@example.com",
		Address: kernel.Address{
			Street:  "9 Birch Road",
			City:    "Dover",
			Country: "US",
		},
	}
}

func shipmentDetails() parcel.Details {
	return parcel.Details{
		Type:     parcel.TypePackage,
		WeightKg: 2.5,
	}
}

func makeParcel(t *testing.T, senderID kernel.UUID, receiverID *kernel.UUID) *parcel.Parcel {
	t.Helper()

	sender := senderAccount(senderID)
	p, err := parcel.NewParcel(
		kernel.NewUUID(),
		parcel.NewTrackingID(time.Now()),
		senderID,
		receiverID,
		parcel.ContactInfo{
			Name:    sender.Name,
			Email:   sender.Email,
			Phone:   sender.Phone,
			Address: sender.Address,
		},
		receiverContactInfo(),
		shipmentDetails(),
		parcel.DeliveryInfo{},
		parcel.Fee{Base: 50, Weight: 50, Total: 100, PaymentMethod: parcel.PaymentCash},
	)
	require.NoError(t, err)
	return p
}

// advanceParcel walks the parcel through the given statuses acting as an
// admin, so fixtures can start tests from any lifecycle stage.
func advanceParcel(t *testing.T, p *parcel.Parcel, statuses ...parcel.Status) {
	t.Helper()

	adminID := kernel.NewUUID()
	policy := services.NewTransitionPolicy()
	for _, target := range statuses {
		require.NoError(t, p.ChangeStatus(policy, target, adminID, account.RoleAdmin, "", ""))
	}
}
