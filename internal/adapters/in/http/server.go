// Package http exposes the parcel tracking API over REST. It coordinates
// between HTTP handlers and application use cases: requests are bound and
// translated into commands and queries, results and taxonomy errors are
// translated back into JSON responses.
package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"

	"github.com/labstack/echo/v4"
)

type createParcelHandler interface {
	Handle(ctx context.Context, cmd commands.CreateParcelCommand) (parcel.TrackingID, error)
}

type updateParcelStatusHandler interface {
	Handle(ctx context.Context, cmd commands.UpdateParcelStatusCommand) error
}

type cancelParcelHandler interface {
	Handle(ctx context.Context, cmd commands.CancelParcelCommand) error
}

type setParcelFlagHandler interface {
	Handle(ctx context.Context, cmd commands.SetParcelFlagCommand) error
}

type assignPersonnelHandler interface {
	Handle(ctx context.Context, cmd commands.AssignPersonnelCommand) error
}

type getParcelHandler interface {
	Handle(ctx context.Context, query queries.GetParcelQuery) (*parcel.Parcel, error)
}

type trackParcelHandler interface {
	Handle(ctx context.Context, query queries.GetParcelByTrackingIDQuery) (*parcel.Parcel, error)
}

type listParcelsHandler interface {
	Handle(ctx context.Context, query queries.ListParcelsQuery) (queries.ListParcelsQueryResponse, error)
}

type parcelStatsHandler interface {
	Handle(ctx context.Context, query queries.GetParcelStatsQuery) (queries.GetParcelStatsQueryResponse, error)
}

// Server wires the HTTP routes to the command and query handlers.
type Server struct {
	createParcel    createParcelHandler
	updateStatus    updateParcelStatusHandler
	cancelParcel    cancelParcelHandler
	setFlag         setParcelFlagHandler
	assignPersonnel assignPersonnelHandler

	getParcel   getParcelHandler
	trackParcel trackParcelHandler
	listParcels listParcelsHandler
	parcelStats parcelStatsHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createParcel createParcelHandler,
	updateStatus updateParcelStatusHandler,
	cancelParcel cancelParcelHandler,
	setFlag setParcelFlagHandler,
	assignPersonnel assignPersonnelHandler,
	getParcel getParcelHandler,
	trackParcel trackParcelHandler,
	listParcels listParcelsHandler,
	parcelStats parcelStatsHandler,
) *Server {
	return &Server{
		createParcel:    createParcel,
		updateStatus:    updateStatus,
		cancelParcel:    cancelParcel,
		setFlag:         setFlag,
		assignPersonnel: assignPersonnel,
		getParcel:       getParcel,
		trackParcel:     trackParcel,
		listParcels:     listParcels,
		parcelStats:     parcelStats,
	}
}

// RegisterRoutes mounts the API under /api/v1. Tracking by tracking ID is
// public; everything else requires a bearer token, and the admin surface
// additionally requires the admin role.
func (s *Server) RegisterRoutes(e *echo.Echo, tokens ports.TokenService) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")

	api.GET("/parcels/track/:trackingId", s.TrackParcel)

	auth := api.Group("", Authenticate(tokens))
	auth.POST("/parcels", s.CreateParcel)
	auth.GET("/parcels", s.ListParcels)
	auth.GET("/parcels/:id", s.GetParcel)
	auth.POST("/parcels/:id/status", s.UpdateParcelStatus)
	auth.POST("/parcels/:id/cancel", s.CancelParcel)

	auth.GET("/parcels/stats", s.GetParcelStats, RequireAdmin)
	auth.PUT("/parcels/:id/flags", s.SetParcelFlag, RequireAdmin)
	auth.PUT("/parcels/:id/personnel", s.AssignPersonnel, RequireAdmin)
}

// CreateParcel handles POST /api/v1/parcels - registers a new parcel for the
// authenticated sender.
func (s *Server) CreateParcel(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return respondBadRequest(ctx, "Missing principal")
	}

	var req CreateParcelRequest
	if err := ctx.Bind(&req); err != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	parcelType, err := parcel.ParcelTypeFromString(req.Type)
	if err != nil {
		return respondError(ctx, err)
	}

	var dims *parcel.Dimensions
	if req.Dimensions != nil {
		dims = &parcel.Dimensions{
			Length: req.Dimensions.Length,
			Width:  req.Dimensions.Width,
			Height: req.Dimensions.Height,
		}
	}

	parcelID := kernel.NewUUID()
	cmd, err := commands.NewCreateParcelCommand(
		parcelID,
		principal.UserID,
		contactFromRequest(req.Receiver),
		parcel.Details{
			Type:          parcelType,
			WeightKg:      req.WeightKg,
			Dimensions:    dims,
			Description:   req.Description,
			DeclaredValue: req.DeclaredValue,
		},
		parcel.DeliveryInfo{
			PreferredDate: req.PreferredDate,
			Instructions:  req.Instructions,
			IsUrgent:      req.IsUrgent,
			DistanceKm:    req.DistanceKm,
		},
		parcel.PaymentMethod(req.PaymentMethod),
	)
	if err != nil {
		return respondError(ctx, err)
	}

	trackingID, err := s.createParcel.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateParcelResponse{
		ParcelID:   parcelID.String(),
		TrackingID: trackingID.String(),
	})
}

// GetParcel handles GET /api/v1/parcels/:id - retrieves a parcel the
// authenticated principal is a party to.
func (s *Server) GetParcel(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return respondBadRequest(ctx, "Missing principal")
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid parcel ID")
	}

	query, err := queries.NewGetParcelQuery(parcelID, principal.UserID, principal.Role)
	if err != nil {
		return respondError(ctx, err)
	}

	aggregate, err := s.getParcel.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, parcelToResponse(aggregate))
}

// TrackParcel handles GET /api/v1/parcels/track/:trackingId - public
// tracking, no authentication required.
func (s *Server) TrackParcel(ctx echo.Context) error {
	trackingID, err := parcel.TrackingIDFromString(ctx.Param("trackingId"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid tracking ID")
	}

	query, err := queries.NewGetParcelByTrackingIDQuery(trackingID)
	if err != nil {
		return respondError(ctx, err)
	}

	aggregate, err := s.trackParcel.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, parcelToTrackingResponse(aggregate))
}

// ListParcels handles GET /api/v1/parcels - lists parcels scoped to the
// authenticated principal's role, newest first.
func (s *Server) ListParcels(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return respondBadRequest(ctx, "Missing principal")
	}

	page, err := queryInt(ctx, "page", 1)
	if err != nil {
		return respondBadRequest(ctx, "Invalid page")
	}
	pageSize, err := queryInt(ctx, "pageSize", 0)
	if err != nil {
		return respondBadRequest(ctx, "Invalid pageSize")
	}

	query, err := queries.NewListParcelsQuery(principal.UserID, principal.Role, principal.Email, page, pageSize)
	if err != nil {
		return respondError(ctx, err)
	}

	if raw := ctx.QueryParam("status"); raw != "" {
		status, statusErr := parcel.StatusFromString(raw)
		if statusErr != nil {
			return respondError(ctx, statusErr)
		}
		query, err = query.WithStatus(status)
		if err != nil {
			return respondError(ctx, err)
		}
	}

	if raw := ctx.QueryParam("urgent"); raw != "" {
		urgent, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return respondBadRequest(ctx, "Invalid urgent")
		}
		query = query.WithUrgent(urgent)
	}

	createdFrom, err := queryTime(ctx, "createdFrom")
	if err != nil {
		return respondBadRequest(ctx, "Invalid createdFrom")
	}
	createdTo, err := queryTime(ctx, "createdTo")
	if err != nil {
		return respondBadRequest(ctx, "Invalid createdTo")
	}
	if !createdFrom.IsZero() || !createdTo.IsZero() {
		query, err = query.WithCreatedBetween(createdFrom, createdTo)
		if err != nil {
			return respondError(ctx, err)
		}
	}

	if raw := ctx.QueryParam("flagged"); raw != "" {
		flagged, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return respondBadRequest(ctx, "Invalid flagged")
		}
		query = query.WithFlagged(flagged)
	}
	if raw := ctx.QueryParam("held"); raw != "" {
		held, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return respondBadRequest(ctx, "Invalid held")
		}
		query = query.WithHeld(held)
	}
	if raw := ctx.QueryParam("blocked"); raw != "" {
		blocked, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			return respondBadRequest(ctx, "Invalid blocked")
		}
		query = query.WithBlocked(blocked)
	}

	result, err := s.listParcels.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, listToResponse(result, query.Page(), query.PageSize()))
}

// UpdateParcelStatus handles POST /api/v1/parcels/:id/status - applies a
// status transition on behalf of the authenticated principal.
func (s *Server) UpdateParcelStatus(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return respondBadRequest(ctx, "Missing principal")
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid parcel ID")
	}

	var req UpdateStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	target, err := parcel.StatusFromString(req.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateParcelStatusCommand(
		parcelID, target, principal.UserID, principal.Role, req.Location, req.Note,
	)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.updateStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelParcel handles POST /api/v1/parcels/:id/cancel - cancels a parcel
// while the cancellation window is open.
func (s *Server) CancelParcel(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return respondBadRequest(ctx, "Missing principal")
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid parcel ID")
	}

	var req CancelParcelRequest
	if err = ctx.Bind(&req); err != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelParcelCommand(parcelID, principal.UserID, principal.Role, req.Note)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.cancelParcel.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetParcelFlag handles PUT /api/v1/parcels/:id/flags - toggles an
// administrative flag (blocked, held, flagged).
func (s *Server) SetParcelFlag(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return respondBadRequest(ctx, "Missing principal")
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid parcel ID")
	}

	var req SetFlagRequest
	if err = ctx.Bind(&req); err != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	kind, err := commands.FlagKindFromString(req.Kind)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewSetParcelFlagCommand(parcelID, kind, req.Value, principal.UserID, req.Note)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.setFlag.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignPersonnel handles PUT /api/v1/parcels/:id/personnel - records the
// delivery personnel responsible for a parcel.
func (s *Server) AssignPersonnel(ctx echo.Context) error {
	principal, ok := principalFrom(ctx)
	if !ok {
		return respondBadRequest(ctx, "Missing principal")
	}

	parcelID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondBadRequest(ctx, "Invalid parcel ID")
	}

	var req AssignPersonnelRequest
	if err = ctx.Bind(&req); err != nil {
		return respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAssignPersonnelCommand(parcelID, req.Personnel, principal.UserID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.assignPersonnel.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetParcelStats handles GET /api/v1/parcels/stats - admin dashboard counters.
func (s *Server) GetParcelStats(ctx echo.Context) error {
	query := queries.NewGetParcelStatsQuery()

	stats, err := s.parcelStats.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, statsToResponse(stats))
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(ctx echo.Context, name string, fallback int) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// queryTime parses an optional RFC 3339 query parameter; absent means the
// zero time.
func queryTime(ctx echo.Context, name string) (time.Time, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
