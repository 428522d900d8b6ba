package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/account"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCreateParcelHandler struct{ mock.Mock }

func (m *mockCreateParcelHandler) Handle(ctx context.Context, cmd commands.CreateParcelCommand) (parcel.TrackingID, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(parcel.TrackingID), args.Error(1)
}

type mockUpdateStatusHandler struct{ mock.Mock }

func (m *mockUpdateStatusHandler) Handle(ctx context.Context, cmd commands.UpdateParcelStatusCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockCancelParcelHandler struct{ mock.Mock }

func (m *mockCancelParcelHandler) Handle(ctx context.Context, cmd commands.CancelParcelCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockSetFlagHandler struct{ mock.Mock }

func (m *mockSetFlagHandler) Handle(ctx context.Context, cmd commands.SetParcelFlagCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockAssignPersonnelHandler struct{ mock.Mock }

func (m *mockAssignPersonnelHandler) Handle(ctx context.Context, cmd commands.AssignPersonnelCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockGetParcelHandler struct{ mock.Mock }

func (m *mockGetParcelHandler) Handle(ctx context.Context, query queries.GetParcelQuery) (*parcel.Parcel, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

type mockTrackParcelHandler struct{ mock.Mock }

func (m *mockTrackParcelHandler) Handle(ctx context.Context, query queries.GetParcelByTrackingIDQuery) (*parcel.Parcel, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

type mockListParcelsHandler struct{ mock.Mock }

func (m *mockListParcelsHandler) Handle(ctx context.Context, query queries.ListParcelsQuery) (queries.ListParcelsQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.ListParcelsQueryResponse), args.Error(1)
}

type mockParcelStatsHandler struct{ mock.Mock }

func (m *mockParcelStatsHandler) Handle(ctx context.Context, query queries.GetParcelStatsQuery) (queries.GetParcelStatsQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetParcelStatsQueryResponse), args.Error(1)
}

// stubTokenService maps token strings straight to principals, so tests can
// exercise the middleware without signing real JWTs.
type stubTokenService struct {
	principals map[string]ports.Principal
}

func (s stubTokenService) Issue(_ ports.Principal) (string, error) {
	return "", nil
}

func (s stubTokenService) Verify(token string) (ports.Principal, error) {
	principal, ok := s.principals[token]
	if !ok {
		return ports.Principal{}, errs.NewValueIsInvalidError("token")
	}
	return principal, nil
}

type serverFixture struct {
	echo *echo.Echo

	createParcel    *mockCreateParcelHandler
	updateStatus    *mockUpdateStatusHandler
	cancelParcel    *mockCancelParcelHandler
	setFlag         *mockSetFlagHandler
	assignPersonnel *mockAssignPersonnelHandler
	getParcel       *mockGetParcelHandler
	trackParcel     *mockTrackParcelHandler
	listParcels     *mockListParcelsHandler
	parcelStats     *mockParcelStatsHandler

	sender ports.Principal
	admin  ports.Principal
}

const (
	senderToken = "sender-token"
	adminToken  = "admin-token"
)

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	f := &serverFixture{
		echo:            echo.New(),
		createParcel:    &mockCreateParcelHandler{},
		updateStatus:    &mockUpdateStatusHandler{},
		cancelParcel:    &mockCancelParcelHandler{},
		setFlag:         &mockSetFlagHandler{},
		assignPersonnel: &mockAssignPersonnelHandler{},
		getParcel:       &mockGetParcelHandler{},
		trackParcel:     &mockTrackParcelHandler{},
		listParcels:     &mockListParcelsHandler{},
		parcelStats:     &mockParcelStatsHandler{},
		sender: ports.Principal{
			UserID: kernel.NewUUID(),
			Email:  "sender@example.com",
			Role:   account.RoleSender,
		},
		admin: ports.Principal{
			UserID: kernel.NewUUID(),
			Email:  "admin@example.com",
			Role:   account.RoleAdmin,
		},
	}

	server := NewServer(
		f.createParcel,
		f.updateStatus,
		f.cancelParcel,
		f.setFlag,
		f.assignPersonnel,
		f.getParcel,
		f.trackParcel,
		f.listParcels,
		f.parcelStats,
	)
	server.RegisterRoutes(f.echo, stubTokenService{principals: map[string]ports.Principal{
		senderToken: f.sender,
		adminToken:  f.admin,
	}})

	return f
}

func (f *serverFixture) request(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func fixtureParcel(t *testing.T, senderID kernel.UUID) *parcel.Parcel {
	t.Helper()

	p, err := parcel.NewParcel(
		kernel.NewUUID(),
		parcel.NewTrackingID(time.Now()),
		senderID,
		nil,
		parcel.ContactInfo{
			Name:  "Jordan Smith",
			Email: "sender@example.com",
			Address: kernel.Address{
				Street:  "12 Harbor Lane",
				City:    "Portsmouth",
				Country: "US",
			},
		},
		parcel.ContactInfo{
			Name:  "Robin Hale",
			Email: "receiver@example.com",
			Address: kernel.Address{
				Street:  "9 Birch Road",
				City:    "Dover",
				Country: "US",
			},
		},
		parcel.Details{Type: parcel.TypePackage, WeightKg: 2.5},
		parcel.DeliveryInfo{},
		parcel.Fee{Base: 50, Weight: 50, Total: 100, PaymentMethod: parcel.PaymentCash},
	)
	require.NoError(t, err)
	return p
}

func TestAuthenticate(t *testing.T) {
	t.Run("should reject requests without a bearer token", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodGet, "/api/v1/parcels", "", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject requests with an unknown token", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodGet, "/api/v1/parcels", "bogus", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("should reject non-admin on the stats endpoint", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodGet, "/api/v1/parcels/stats", senderToken, "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("should reject non-admin on the flags endpoint", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodPut, "/api/v1/parcels/"+kernel.NewUUID().String()+"/flags",
			senderToken, `{"kind":"blocked","value":true}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestServer_CreateParcel(t *testing.T) {
	body := `{
		"receiver": {
			"name": "Robin Hale",
			"email": "receiver@example.com",
			"address": {"street": "9 Birch Road", "city": "Dover", "country": "US"}
		},
		"type": "package",
		"weightKg": 2.5,
		"paymentMethod": "card"
	}`

	t.Run("should register a parcel and return its tracking ID", func(t *testing.T) {
		f := newServerFixture(t)
		trackingID := parcel.NewTrackingID(time.Now())
		f.createParcel.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateParcelCommand) bool {
			return cmd.SenderID() == f.sender.UserID
		})).Return(trackingID, nil)

		rec := f.request(http.MethodPost, "/api/v1/parcels", senderToken, body)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp CreateParcelResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, trackingID.String(), resp.TrackingID)
		assert.NotEmpty(t, resp.ParcelID)
		f.createParcel.AssertExpectations(t)
	})

	t.Run("should reject an unknown parcel type", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodPost, "/api/v1/parcels", senderToken,
			`{"type": "livestock", "weightKg": 2.5, "paymentMethod": "card"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.createParcel.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should reject an unknown payment method", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodPost, "/api/v1/parcels", senderToken,
			`{
				"receiver": {"name": "Robin Hale", "email": "receiver@example.com",
					"address": {"street": "9 Birch Road", "city": "Dover", "country": "US"}},
				"type": "package", "weightKg": 2.5, "paymentMethod": "barter"
			}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.createParcel.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should map a blocked sender onto 403", func(t *testing.T) {
		f := newServerFixture(t)
		f.createParcel.On("Handle", mock.Anything, mock.Anything).
			Return(parcel.TrackingID{}, errs.NewObjectBlockedError("account", f.sender.UserID.String()))

		rec := f.request(http.MethodPost, "/api/v1/parcels", senderToken, body)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestServer_GetParcel(t *testing.T) {
	t.Run("should return the full parcel view", func(t *testing.T) {
		f := newServerFixture(t)
		p := fixtureParcel(t, f.sender.UserID)
		f.getParcel.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetParcelQuery) bool {
			return q.ParcelID() == p.ID() && q.ActorID() == f.sender.UserID
		})).Return(p, nil)

		rec := f.request(http.MethodGet, "/api/v1/parcels/"+p.ID().String(), senderToken, "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp ParcelResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, p.TrackingID().String(), resp.TrackingID)
		assert.Equal(t, "requested", resp.Status)
		assert.Equal(t, "sender@example.com", resp.Sender.Email)
		assert.Len(t, resp.History, 1)
	})

	t.Run("should reject a malformed parcel ID", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodGet, "/api/v1/parcels/not-a-uuid", senderToken, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should map access denial onto 403", func(t *testing.T) {
		f := newServerFixture(t)
		f.getParcel.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errs.NewAccessForbiddenError("parcel"))

		rec := f.request(http.MethodGet, "/api/v1/parcels/"+kernel.NewUUID().String(), senderToken, "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("should map a missing parcel onto 404", func(t *testing.T) {
		f := newServerFixture(t)
		f.getParcel.On("Handle", mock.Anything, mock.Anything).
			Return(nil, errs.NewObjectNotFoundError("parcelId", kernel.NewUUID().String()))

		rec := f.request(http.MethodGet, "/api/v1/parcels/"+kernel.NewUUID().String(), senderToken, "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_TrackParcel(t *testing.T) {
	t.Run("should expose progress without contacts or actor IDs", func(t *testing.T) {
		f := newServerFixture(t)
		p := fixtureParcel(t, kernel.NewUUID())
		f.trackParcel.On("Handle", mock.Anything, mock.Anything).Return(p, nil)

		// No token: tracking is public.
		rec := f.request(http.MethodGet, "/api/v1/parcels/track/"+p.TrackingID().String(), "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp TrackingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, p.TrackingID().String(), resp.TrackingID)
		assert.Equal(t, "requested", resp.Status)
		require.Len(t, resp.History, 1)
		assert.NotContains(t, rec.Body.String(), "receiver@example.com")
		assert.NotContains(t, rec.Body.String(), "updatedBy")
	})

	t.Run("should reject a malformed tracking ID", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodGet, "/api/v1/parcels/track/oops", "", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_ListParcels(t *testing.T) {
	t.Run("should apply pagination defaults", func(t *testing.T) {
		f := newServerFixture(t)
		f.listParcels.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListParcelsQuery) bool {
			return q.Page() == 1 && q.PageSize() == 20 && q.Status() == nil
		})).Return(queries.ListParcelsQueryResponse{}, nil)

		rec := f.request(http.MethodGet, "/api/v1/parcels", senderToken, "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp ListParcelsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 20, resp.PageSize)
		f.listParcels.AssertExpectations(t)
	})

	t.Run("should pass filters through to the query", func(t *testing.T) {
		f := newServerFixture(t)
		f.listParcels.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListParcelsQuery) bool {
			return q.Page() == 2 && q.PageSize() == 5 &&
				q.Status() != nil && *q.Status() == parcel.StatusApproved &&
				q.Flagged() != nil && *q.Flagged()
		})).Return(queries.ListParcelsQueryResponse{}, nil)

		rec := f.request(http.MethodGet,
			"/api/v1/parcels?page=2&pageSize=5&status=approved&flagged=true", adminToken, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		f.listParcels.AssertExpectations(t)
	})

	t.Run("should pass urgency and creation-window filters through", func(t *testing.T) {
		f := newServerFixture(t)
		from := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
		f.listParcels.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListParcelsQuery) bool {
			return q.Urgent() != nil && *q.Urgent() &&
				q.CreatedFrom() != nil && q.CreatedFrom().Equal(from) &&
				q.CreatedTo() != nil && q.CreatedTo().Equal(to)
		})).Return(queries.ListParcelsQueryResponse{}, nil)

		rec := f.request(http.MethodGet,
			"/api/v1/parcels?urgent=true&createdFrom=2025-07-01T00:00:00Z&createdTo=2025-07-31T00:00:00Z",
			senderToken, "")

		assert.Equal(t, http.StatusOK, rec.Code)
		f.listParcels.AssertExpectations(t)
	})

	t.Run("should reject a malformed creation bound", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodGet, "/api/v1/parcels?createdFrom=yesterday", senderToken, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject an inverted creation window", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodGet,
			"/api/v1/parcels?createdFrom=2025-08-01T00:00:00Z&createdTo=2025-07-01T00:00:00Z",
			senderToken, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject an unknown status filter", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodGet, "/api/v1/parcels?status=lost", senderToken, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject a non-boolean flag filter", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodGet, "/api/v1/parcels?flagged=maybe", senderToken, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should reject a non-numeric page", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodGet, "/api/v1/parcels?page=first", senderToken, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_UpdateParcelStatus(t *testing.T) {
	t.Run("should apply the transition", func(t *testing.T) {
		f := newServerFixture(t)
		parcelID := kernel.NewUUID()
		f.updateStatus.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateParcelStatusCommand) bool {
			return cmd.ParcelID() == parcelID && cmd.Target() == parcel.StatusApproved
		})).Return(nil)

		rec := f.request(http.MethodPost, "/api/v1/parcels/"+parcelID.String()+"/status",
			adminToken, `{"status": "approved", "location": "Depot 4"}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.updateStatus.AssertExpectations(t)
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodPost, "/api/v1/parcels/"+kernel.NewUUID().String()+"/status",
			adminToken, `{"status": "teleported"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should map an invalid transition onto 400", func(t *testing.T) {
		f := newServerFixture(t)
		f.updateStatus.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewInvalidTransitionError("delivered", "approved"))

		rec := f.request(http.MethodPost, "/api/v1/parcels/"+kernel.NewUUID().String()+"/status",
			adminToken, `{"status": "approved"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should map a concurrency conflict onto 409", func(t *testing.T) {
		f := newServerFixture(t)
		f.updateStatus.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewConcurrencyConflictError("parcel", kernel.NewUUID().String()))

		rec := f.request(http.MethodPost, "/api/v1/parcels/"+kernel.NewUUID().String()+"/status",
			adminToken, `{"status": "approved"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestServer_CancelParcel(t *testing.T) {
	t.Run("should cancel the parcel", func(t *testing.T) {
		f := newServerFixture(t)
		parcelID := kernel.NewUUID()
		f.cancelParcel.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CancelParcelCommand) bool {
			return cmd.ParcelID() == parcelID && cmd.Note() == "changed my mind"
		})).Return(nil)

		rec := f.request(http.MethodPost, "/api/v1/parcels/"+parcelID.String()+"/cancel",
			senderToken, `{"note": "changed my mind"}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.cancelParcel.AssertExpectations(t)
	})
}

func TestServer_SetParcelFlag(t *testing.T) {
	t.Run("should toggle the flag as admin", func(t *testing.T) {
		f := newServerFixture(t)
		parcelID := kernel.NewUUID()
		f.setFlag.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.SetParcelFlagCommand) bool {
			return cmd.ParcelID() == parcelID && cmd.Value()
		})).Return(nil)

		rec := f.request(http.MethodPut, "/api/v1/parcels/"+parcelID.String()+"/flags",
			adminToken, `{"kind": "blocked", "value": true, "note": "Customs review"}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.setFlag.AssertExpectations(t)
	})

	t.Run("should reject an unknown flag kind", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.request(http.MethodPut, "/api/v1/parcels/"+kernel.NewUUID().String()+"/flags",
			adminToken, `{"kind": "radioactive", "value": true}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_AssignPersonnel(t *testing.T) {
	t.Run("should record the assignment as admin", func(t *testing.T) {
		f := newServerFixture(t)
		parcelID := kernel.NewUUID()
		f.assignPersonnel.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignPersonnelCommand) bool {
			return cmd.ParcelID() == parcelID && cmd.Personnel() == "Casey Brooks"
		})).Return(nil)

		rec := f.request(http.MethodPut, "/api/v1/parcels/"+parcelID.String()+"/personnel",
			adminToken, `{"personnel": "Casey Brooks"}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.assignPersonnel.AssertExpectations(t)
	})
}

func TestServer_GetParcelStats(t *testing.T) {
	t.Run("should return the counters for an admin", func(t *testing.T) {
		f := newServerFixture(t)
		f.parcelStats.On("Handle", mock.Anything, mock.Anything).
			Return(queries.GetParcelStatsQueryResponse{Total: 6, Delivered: 1, TotalFees: 515}, nil)

		rec := f.request(http.MethodGet, "/api/v1/parcels/stats", adminToken, "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp StatsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(6), resp.Total)
		assert.Equal(t, int64(1), resp.Delivered)
		assert.InDelta(t, 515.0, resp.TotalFees, 0.001)
	})

	t.Run("should map storage unavailability onto 503", func(t *testing.T) {
		f := newServerFixture(t)
		f.parcelStats.On("Handle", mock.Anything, mock.Anything).
			Return(queries.GetParcelStatsQueryResponse{}, errs.NewStorageUnavailableError("parcel stats", context.DeadlineExceeded))

		rec := f.request(http.MethodGet, "/api/v1/parcels/stats", adminToken, "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
