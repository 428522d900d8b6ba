package parcel_test

import (
	"errors"
	"testing"
	"time"

	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allowAllAuthorizer permits every transition; role gating has its own tests
// in the services package.
type allowAllAuthorizer struct{}

func (allowAllAuthorizer) Authorize(account.Role, parcel.Status, parcel.Status) error {
	return nil
}

// denyAllAuthorizer rejects every transition with an access error.
type denyAllAuthorizer struct{}

func (denyAllAuthorizer) Authorize(role account.Role, from, to parcel.Status) error {
	return errs.NewAccessForbiddenError(role.String())
}

func validContactInfo(email string) parcel.ContactInfo {
	return parcel.ContactInfo{
		Name:  "Jordan Smith",
		Email: email,
		Phone: "+15551234567",
		Address: kernel.Address{
			Street:  "12 Harbor Lane",
			City:    "Portsmouth",
			Country: "US",
		},
	}
}

func validDetails() parcel.Details {
	return parcel.Details{
		Type:          parcel.TypePackage,
		WeightKg:      2.5,
		Description:   "Books",
		DeclaredValue: 40,
	}
}

func validFee() parcel.Fee {
	return parcel.Fee{
		Base:          50,
		Weight:        50,
		Total:         100,
		PaymentMethod: parcel.PaymentCash,
	}
}

func newTestParcel(t *testing.T) *parcel.Parcel {
	t.Helper()

	p, err := parcel.NewParcel(
		kernel.NewUUID(),
		parcel.NewTrackingID(time.Now()),
		kernel.NewUUID(),
		nil,
		validContactInfo("sender@example.com"),
		validContactInfo("receiver@example.com"),
		validDetails(),
		parcel.DeliveryInfo{},
		validFee(),
	)
	require.NoError(t, err)
	return p
}

func TestNewParcel(t *testing.T) {
	validID := kernel.NewUUID()
	validTrackingID := parcel.NewTrackingID(time.Now())
	validSenderID := kernel.NewUUID()

	t.Run("should create parcel in requested status with one history entry", func(t *testing.T) {
		p, err := parcel.NewParcel(
			validID,
			validTrackingID,
			validSenderID,
			nil,
			validContactInfo("sender@example.com"),
			validContactInfo("receiver@example.com"),
			validDetails(),
			parcel.DeliveryInfo{},
			validFee(),
		)

		require.NoError(t, err)
		assert.NotNil(t, p)
		require.NoError(t, p.Validate())
		assert.True(t, p.ID().IsEqual(validID))
		assert.True(t, p.TrackingID().IsEqual(validTrackingID))
		assert.True(t, p.SenderID().IsEqual(validSenderID))
		assert.Nil(t, p.ReceiverID())
		assert.Equal(t, parcel.StatusRequested, p.Status())
		assert.Equal(t, 1, p.Version())
		assert.False(t, p.IsBlocked())
		assert.False(t, p.IsHeld())
		assert.False(t, p.IsFlagged())

		history := p.History()
		require.Len(t, history, 1)
		assert.Equal(t, parcel.StatusRequested, history[0].Status)
		assert.True(t, history[0].UpdatedBy.IsEqual(validSenderID))
		assert.Equal(t, account.RoleSender, history[0].UpdatedByType)
		assert.False(t, history[0].Timestamp.IsZero())
	})

	t.Run("should accept a linked receiver account", func(t *testing.T) {
		receiverID := kernel.NewUUID()

		p, err := parcel.NewParcel(
			validID,
			validTrackingID,
			validSenderID,
			&receiverID,
			validContactInfo("sender@example.com"),
			validContactInfo("receiver@example.com"),
			validDetails(),
			parcel.DeliveryInfo{},
			validFee(),
		)

		require.NoError(t, err)
		require.NotNil(t, p.ReceiverID())
		assert.True(t, p.ReceiverID().IsEqual(receiverID))
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		p, err := parcel.NewParcel(
			invalidID,
			validTrackingID,
			validSenderID,
			nil,
			validContactInfo("sender@example.com"),
			validContactInfo("receiver@example.com"),
			validDetails(),
			parcel.DeliveryInfo{},
			validFee(),
		)

		require.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "UUID must be created")
	})

	t.Run("should fail with zero tracking ID", func(t *testing.T) {
		var invalidTrackingID parcel.TrackingID

		p, err := parcel.NewParcel(
			validID,
			invalidTrackingID,
			validSenderID,
			nil,
			validContactInfo("sender@example.com"),
			validContactInfo("receiver@example.com"),
			validDetails(),
			parcel.DeliveryInfo{},
			validFee(),
		)

		require.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "tracking ID must be created")
	})

	t.Run("should fail when receiver email is missing", func(t *testing.T) {
		p, err := parcel.NewParcel(
			validID,
			validTrackingID,
			validSenderID,
			nil,
			validContactInfo("sender@example.com"),
			parcel.ContactInfo{Name: "No Email"},
			validDetails(),
			parcel.DeliveryInfo{},
			validFee(),
		)

		require.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("should fail when receiver email is malformed", func(t *testing.T) {
		p, err := parcel.NewParcel(
			validID,
			validTrackingID,
			validSenderID,
			nil,
			validContactInfo("sender@example.com"),
			validContactInfo("not-an-email"),
			validDetails(),
			parcel.DeliveryInfo{},
			validFee(),
		)

		require.Error(t, err)
		assert.Nil(t, p)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("should fail with overweight shipment", func(t *testing.T) {
		details := validDetails()
		details.WeightKg = parcel.MaxWeightKg + 1

		p, err := parcel.NewParcel(
			validID,
			validTrackingID,
			validSenderID,
			nil,
			validContactInfo("sender@example.com"),
			validContactInfo("receiver@example.com"),
			details,
			parcel.DeliveryInfo{},
			validFee(),
		)

		require.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "weightKg")
	})

	t.Run("should handle multiple validation errors", func(t *testing.T) {
		var invalidID kernel.UUID
		details := validDetails()
		details.WeightKg = 0

		p, err := parcel.NewParcel(
			invalidID,
			validTrackingID,
			validSenderID,
			nil,
			validContactInfo("sender@example.com"),
			validContactInfo("receiver@example.com"),
			details,
			parcel.DeliveryInfo{},
			validFee(),
		)

		require.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "weightKg")
	})
}

func TestRestoreParcel(t *testing.T) {
	id := kernel.NewUUID()
	trackingID := parcel.NewTrackingID(time.Now())
	senderID := kernel.NewUUID()
	createdAt := time.Now().Add(-time.Hour)
	updatedAt := time.Now()

	makeHistory := func(statuses ...parcel.Status) []parcel.StatusLog {
		history := make([]parcel.StatusLog, 0, len(statuses))
		for _, s := range statuses {
			history = append(history, parcel.StatusLog{
				Status:        s,
				Timestamp:     createdAt,
				UpdatedBy:     senderID,
				UpdatedByType: account.RoleSender,
			})
		}
		return history
	}

	restore := func(status parcel.Status, history []parcel.StatusLog, version int) (*parcel.Parcel, error) {
		return parcel.RestoreParcel(
			id, trackingID, senderID, nil,
			validContactInfo("sender@example.com"),
			validContactInfo("receiver@example.com"),
			validDetails(),
			parcel.DeliveryInfo{},
			validFee(),
			status, history,
			"", false, false, false,
			version, createdAt, updatedAt,
		)
	}

	t.Run("should restore a persisted parcel", func(t *testing.T) {
		p, err := restore(parcel.StatusApproved,
			makeHistory(parcel.StatusRequested, parcel.StatusApproved), 2)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.Equal(t, parcel.StatusApproved, p.Status())
		assert.Equal(t, 2, p.Version())
		assert.Equal(t, createdAt, p.CreatedAt())
		assert.Equal(t, updatedAt, p.UpdatedAt())
		assert.Len(t, p.History(), 2)
	})

	t.Run("should fail with empty history", func(t *testing.T) {
		p, err := restore(parcel.StatusRequested, nil, 1)

		require.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "statusHistory")
	})

	t.Run("should fail when last history status mismatches current status", func(t *testing.T) {
		p, err := restore(parcel.StatusApproved, makeHistory(parcel.StatusRequested), 2)

		require.Error(t, err)
		assert.Nil(t, p)
		assert.Contains(t, err.Error(), "does not match current status")
	})

	t.Run("should fail with invalid version", func(t *testing.T) {
		p, err := restore(parcel.StatusRequested, makeHistory(parcel.StatusRequested), 0)

		require.Error(t, err)
		assert.Nil(t, p)
		assert.IsType(t, &errs.VersionIsInvalidError{}, err)
	})

	t.Run("should fail with invalid status", func(t *testing.T) {
		p, err := restore(parcel.StatusUnknown, makeHistory(parcel.StatusUnknown), 1)

		require.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestParcel_Validate(t *testing.T) {
	t.Run("should pass for constructed parcel", func(t *testing.T) {
		p := newTestParcel(t)

		require.NoError(t, p.Validate())
	})

	t.Run("should fail for nil parcel", func(t *testing.T) {
		var p *parcel.Parcel

		err := p.Validate()

		require.Error(t, err)
		assert.Equal(t, parcel.ErrParcelIsNotConstructed, err)
	})

	t.Run("should fail for zero value parcel", func(t *testing.T) {
		var p parcel.Parcel

		err := p.Validate()

		require.Error(t, err)
		assert.Equal(t, parcel.ErrParcelIsNotConstructed, err)
	})
}

func TestParcel_ChangeStatus(t *testing.T) {
	adminID := kernel.NewUUID()

	t.Run("should apply a legal authorized transition and append history", func(t *testing.T) {
		p := newTestParcel(t)

		err := p.ChangeStatus(allowAllAuthorizer{}, parcel.StatusApproved,
			adminID, account.RoleAdmin, "Sorting hub", "Approved for delivery")

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusApproved, p.Status())

		history := p.History()
		require.Len(t, history, 2)
		last := history[len(history)-1]
		assert.Equal(t, parcel.StatusApproved, last.Status)
		assert.True(t, last.UpdatedBy.IsEqual(adminID))
		assert.Equal(t, account.RoleAdmin, last.UpdatedByType)
		assert.Equal(t, "Sorting hub", last.Location)
		assert.Equal(t, "Approved for delivery", last.Note)
	})

	t.Run("should reject an illegal transition before consulting the authorizer", func(t *testing.T) {
		p := newTestParcel(t)

		// denyAll would return Forbidden; the table check must win
		err := p.ChangeStatus(denyAllAuthorizer{}, parcel.StatusDelivered,
			adminID, account.RoleAdmin, "", "")

		require.Error(t, err)
		assert.IsType(t, &errs.InvalidTransitionError{}, err)
		assert.Equal(t, parcel.StatusRequested, p.Status())
		assert.Len(t, p.History(), 1)
	})

	t.Run("should reject an unauthorized legal transition", func(t *testing.T) {
		p := newTestParcel(t)

		err := p.ChangeStatus(denyAllAuthorizer{}, parcel.StatusApproved,
			adminID, account.RoleSender, "", "")

		require.Error(t, err)
		assert.IsType(t, &errs.AccessForbiddenError{}, err)
		assert.Equal(t, parcel.StatusRequested, p.Status())
		assert.Len(t, p.History(), 1)
	})

	t.Run("should reject any change on a blocked parcel", func(t *testing.T) {
		p := newTestParcel(t)
		require.NoError(t, p.SetBlocked(true, adminID, ""))

		err := p.ChangeStatus(allowAllAuthorizer{}, parcel.StatusApproved,
			adminID, account.RoleAdmin, "", "")

		require.Error(t, err)
		assert.IsType(t, &errs.ObjectBlockedError{}, err)
		assert.Equal(t, parcel.StatusRequested, p.Status())
	})

	t.Run("should reject any change on a held parcel", func(t *testing.T) {
		p := newTestParcel(t)
		require.NoError(t, p.SetHeld(true, adminID, ""))

		err := p.ChangeStatus(allowAllAuthorizer{}, parcel.StatusApproved,
			adminID, account.RoleAdmin, "", "")

		require.Error(t, err)
		assert.IsType(t, &errs.ObjectBlockedError{}, err)
		assert.Contains(t, err.Error(), "administrative hold")
	})

	t.Run("should allow changes on a flagged parcel", func(t *testing.T) {
		p := newTestParcel(t)
		require.NoError(t, p.SetFlagged(true, adminID, "Suspicious declared value"))

		err := p.ChangeStatus(allowAllAuthorizer{}, parcel.StatusApproved,
			adminID, account.RoleAdmin, "", "")

		require.NoError(t, err)
		assert.Equal(t, parcel.StatusApproved, p.Status())
	})

	t.Run("should fail with invalid actor", func(t *testing.T) {
		p := newTestParcel(t)
		var invalidActor kernel.UUID

		err := p.ChangeStatus(allowAllAuthorizer{}, parcel.StatusApproved,
			invalidActor, account.RoleAdmin, "", "")

		require.Error(t, err)
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
		assert.Equal(t, parcel.StatusRequested, p.Status())
	})

	t.Run("should fail with invalid actor role", func(t *testing.T) {
		p := newTestParcel(t)

		err := p.ChangeStatus(allowAllAuthorizer{}, parcel.StatusApproved,
			adminID, account.RoleUnknown, "", "")

		require.Error(t, err)
		assert.Equal(t, parcel.StatusRequested, p.Status())
	})

	t.Run("should walk the full delivery lifecycle", func(t *testing.T) {
		p := newTestParcel(t)
		path := []parcel.Status{
			parcel.StatusApproved,
			parcel.StatusDispatched,
			parcel.StatusInTransit,
			parcel.StatusDelivered,
		}

		for _, target := range path {
			require.NoError(t, p.ChangeStatus(allowAllAuthorizer{}, target,
				adminID, account.RoleAdmin, "", ""))
		}

		assert.Equal(t, parcel.StatusDelivered, p.Status())
		history := p.History()
		require.Len(t, history, 5)
		assert.Equal(t, parcel.StatusDelivered, history[len(history)-1].Status)
	})

	t.Run("should support return and re-dispatch", func(t *testing.T) {
		p := newTestParcel(t)
		path := []parcel.Status{
			parcel.StatusApproved,
			parcel.StatusDispatched,
			parcel.StatusInTransit,
			parcel.StatusReturned,
			parcel.StatusDispatched,
			parcel.StatusInTransit,
			parcel.StatusDelivered,
		}

		for _, target := range path {
			require.NoError(t, p.ChangeStatus(allowAllAuthorizer{}, target,
				adminID, account.RoleAdmin, "", ""))
		}

		assert.Equal(t, parcel.StatusDelivered, p.Status())
		assert.Len(t, p.History(), 8)
	})
}

func TestParcel_CanBeCancelled(t *testing.T) {
	adminID := kernel.NewUUID()

	advance := func(t *testing.T, p *parcel.Parcel, path ...parcel.Status) {
		t.Helper()
		for _, target := range path {
			require.NoError(t, p.ChangeStatus(allowAllAuthorizer{}, target,
				adminID, account.RoleAdmin, "", ""))
		}
	}

	t.Run("should allow cancellation before dispatch", func(t *testing.T) {
		p := newTestParcel(t)
		require.NoError(t, p.CanBeCancelled())

		advance(t, p, parcel.StatusApproved)
		require.NoError(t, p.CanBeCancelled())
	})

	t.Run("should close the window at dispatch", func(t *testing.T) {
		p := newTestParcel(t)
		advance(t, p, parcel.StatusApproved, parcel.StatusDispatched)

		err := p.CanBeCancelled()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "can no longer be cancelled")
	})

	t.Run("should reject cancelling an already cancelled parcel", func(t *testing.T) {
		p := newTestParcel(t)
		advance(t, p, parcel.StatusCancelled)

		err := p.CanBeCancelled()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already cancelled")
	})

	t.Run("should reject cancelling a delivered parcel", func(t *testing.T) {
		p := newTestParcel(t)
		advance(t, p, parcel.StatusApproved, parcel.StatusDispatched,
			parcel.StatusInTransit, parcel.StatusDelivered)

		require.Error(t, p.CanBeCancelled())
	})
}

func TestParcel_AdminFlags(t *testing.T) {
	adminID := kernel.NewUUID()

	t.Run("should toggle block and append audit entries with unchanged status", func(t *testing.T) {
		p := newTestParcel(t)

		require.NoError(t, p.SetBlocked(true, adminID, "Payment dispute"))
		assert.True(t, p.IsBlocked())

		history := p.History()
		require.Len(t, history, 2)
		last := history[len(history)-1]
		assert.Equal(t, p.Status(), last.Status)
		assert.Equal(t, account.RoleAdmin, last.UpdatedByType)
		assert.Equal(t, "Payment dispute", last.Note)
	})

	t.Run("should allow unblocking a blocked parcel", func(t *testing.T) {
		p := newTestParcel(t)
		require.NoError(t, p.SetBlocked(true, adminID, ""))

		err := p.SetBlocked(false, adminID, "")

		require.NoError(t, err)
		assert.False(t, p.IsBlocked())

		history := p.History()
		assert.Equal(t, "Parcel unblocked", history[len(history)-1].Note)
	})

	t.Run("should toggle hold with default notes", func(t *testing.T) {
		p := newTestParcel(t)

		require.NoError(t, p.SetHeld(true, adminID, ""))
		assert.True(t, p.IsHeld())
		history := p.History()
		assert.Equal(t, "Parcel held", history[len(history)-1].Note)

		require.NoError(t, p.SetHeld(false, adminID, ""))
		assert.False(t, p.IsHeld())
		history = p.History()
		assert.Equal(t, "Parcel hold released", history[len(history)-1].Note)
	})

	t.Run("should toggle flag", func(t *testing.T) {
		p := newTestParcel(t)

		require.NoError(t, p.SetFlagged(true, adminID, ""))
		assert.True(t, p.IsFlagged())

		require.NoError(t, p.SetFlagged(false, adminID, ""))
		assert.False(t, p.IsFlagged())
	})

	t.Run("should fail with invalid actor", func(t *testing.T) {
		p := newTestParcel(t)
		var invalidActor kernel.UUID

		err := p.SetBlocked(true, invalidActor, "")

		require.Error(t, err)
		assert.False(t, p.IsBlocked())
		assert.Len(t, p.History(), 1)
	})
}

func TestParcel_AssignPersonnel(t *testing.T) {
	adminID := kernel.NewUUID()

	t.Run("should record personnel and append an audit entry", func(t *testing.T) {
		p := newTestParcel(t)

		err := p.AssignPersonnel("Casey Rider", adminID)

		require.NoError(t, err)
		assert.Equal(t, "Casey Rider", p.AssignedPersonnel())

		history := p.History()
		require.Len(t, history, 2)
		last := history[len(history)-1]
		assert.Equal(t, p.Status(), last.Status)
		assert.Contains(t, last.Note, "Casey Rider")
	})

	t.Run("should fail with empty personnel name", func(t *testing.T) {
		p := newTestParcel(t)

		err := p.AssignPersonnel("", adminID)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValueIsRequired))
		assert.Empty(t, p.AssignedPersonnel())
	})

	t.Run("should allow reassignment", func(t *testing.T) {
		p := newTestParcel(t)
		require.NoError(t, p.AssignPersonnel("Casey Rider", adminID))

		err := p.AssignPersonnel("Riley Porter", adminID)

		require.NoError(t, err)
		assert.Equal(t, "Riley Porter", p.AssignedPersonnel())
		assert.Len(t, p.History(), 3)
	})
}

func TestParcel_History(t *testing.T) {
	t.Run("should return a copy that does not alias internal state", func(t *testing.T) {
		p := newTestParcel(t)

		history := p.History()
		history[0].Note = "mutated"

		assert.NotEqual(t, "mutated", p.History()[0].Note)
	})

	t.Run("last entry status always equals current status", func(t *testing.T) {
		adminID := kernel.NewUUID()
		p := newTestParcel(t)

		steps := []func() error{
			func() error { return p.SetFlagged(true, adminID, "") },
			func() error {
				return p.ChangeStatus(allowAllAuthorizer{}, parcel.StatusApproved,
					adminID, account.RoleAdmin, "", "")
			},
			func() error { return p.AssignPersonnel("Casey Rider", adminID) },
			func() error {
				return p.ChangeStatus(allowAllAuthorizer{}, parcel.StatusDispatched,
					adminID, account.RoleAdmin, "", "")
			},
			func() error { return p.SetHeld(true, adminID, "") },
			func() error { return p.SetHeld(false, adminID, "") },
		}

		for _, step := range steps {
			require.NoError(t, step())
			history := p.History()
			assert.Equal(t, p.Status(), history[len(history)-1].Status)
		}
	})
}

func TestParcel_IsEqual(t *testing.T) {
	t.Run("should compare parcels by ID", func(t *testing.T) {
		p1 := newTestParcel(t)
		p2 := newTestParcel(t)

		assert.True(t, p1.IsEqual(p1))
		assert.False(t, p1.IsEqual(p2))
		assert.False(t, p1.IsEqual(nil))
	})
}
