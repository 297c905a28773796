package http

import (
	"context"
	"errors"
	"net/http"

	"stockledger/internal/core/application/usecases/commands"
	"stockledger/internal/core/application/usecases/queries"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/core/domain/model/unit"
	"stockledger/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client chosen key of an adjust request.
const IdempotencyKeyHeader = "Idempotency-Key"

var errDuplicateRequest = errors.New("request with this idempotency key was already accepted")

// IdempotencyStore reserves idempotency keys of adjust requests.
type IdempotencyStore interface {
	Reserve(ctx context.Context, tenantID kernel.UUID, key string) (bool, error)
	Confirm(ctx context.Context, tenantID kernel.UUID, key string) error
	Release(ctx context.Context, tenantID kernel.UUID, key string) error
}

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	RegisterEquipment commands.RegisterEquipmentCommandHandler
	AdjustStock       commands.AdjustStockCommandHandler
	CreateUnit        commands.CreateUnitCommandHandler
	GetStock          queries.GetEquipmentStockQueryHandler
	GetHistory        queries.GetEquipmentHistoryQueryHandler
	GetNextUnitCode   queries.GetNextUnitCodeQueryHandler
	Reconcile         queries.ReconcileEquipmentQueryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers    Handlers
	idempotency IdempotencyStore
	logger      *zap.Logger
}

// NewServer creates a Server. A nil idempotency store disables replay detection.
func NewServer(handlers Handlers, idempotency IdempotencyStore, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handlers:    handlers,
		idempotency: idempotency,
		logger:      logger,
	}
}

// RegisterEquipment handles POST /api/v1/tenants/:tenantId/equipment.
func (s *Server) RegisterEquipment(c echo.Context) error {
	tenantID, err := kernel.ParseUUIDParam("tenantId", c.Param("tenantId"))
	if err != nil {
		return s.fail(c, err)
	}

	var req registerEquipmentRequest
	if err = s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRegisterEquipmentCommand(tenantID, req.Name)
	if err != nil {
		return s.fail(c, err)
	}

	created, err := s.handlers.RegisterEquipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, stockFromEquipment(created))
}

// GetStock handles GET /api/v1/tenants/:tenantId/equipment/:equipmentId.
func (s *Server) GetStock(c echo.Context) error {
	tenantID, equipmentID, err := scopeParams(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetEquipmentStockQuery(tenantID, equipmentID)
	if err != nil {
		return s.fail(c, err)
	}

	stock, err := s.handlers.GetStock.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, stockFromQuery(stock))
}

// AdjustStock handles POST /api/v1/tenants/:tenantId/equipment/:equipmentId/movements.
//
// With an Idempotency-Key header the key is reserved before the ledger is
// touched and confirmed once the adjustment is committed. A replay answers
// 409. A failed adjustment releases the key.
func (s *Server) AdjustStock(c echo.Context) error {
	tenantID, equipmentID, err := scopeParams(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req adjustStockRequest
	if err = s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := adjustCommand(tenantID, equipmentID, req)
	if err != nil {
		return s.fail(c, err)
	}

	ctx := c.Request().Context()
	key := c.Request().Header.Get(IdempotencyKeyHeader)
	if key != "" && s.idempotency != nil {
		reserved, reserveErr := s.idempotency.Reserve(ctx, tenantID, key)
		if reserveErr != nil {
			return s.fail(c, reserveFailure(reserveErr))
		}
		if !reserved {
			return s.fail(c, errDuplicateRequest)
		}
	}

	if err = s.handlers.AdjustStock.Handle(ctx, cmd); err != nil {
		if key != "" && s.idempotency != nil {
			if releaseErr := s.idempotency.Release(context.WithoutCancel(ctx), tenantID, key); releaseErr != nil {
				s.logger.Warn("idempotency key not released", zap.String("key", key), zap.Error(releaseErr))
			}
		}
		return s.fail(c, err)
	}

	if key != "" && s.idempotency != nil {
		if confirmErr := s.idempotency.Confirm(context.WithoutCancel(ctx), tenantID, key); confirmErr != nil {
			s.logger.Warn("idempotency key not confirmed", zap.String("key", key), zap.Error(confirmErr))
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// GetHistory handles GET /api/v1/tenants/:tenantId/equipment/:equipmentId/movements.
func (s *Server) GetHistory(c echo.Context) error {
	tenantID, equipmentID, err := scopeParams(c)
	if err != nil {
		return s.fail(c, err)
	}

	limit := 0
	if err = runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("limit", err))
	}

	query, err := queries.NewGetEquipmentHistoryQuery(tenantID, equipmentID, limit)
	if err != nil {
		return s.fail(c, err)
	}

	history, err := s.handlers.GetHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]movementResponse, 0)
	for item, itemErr := range history {
		if itemErr != nil {
			return s.fail(c, itemErr)
		}
		response = append(response, movementFromQuery(item))
	}

	return c.JSON(http.StatusOK, response)
}

// CreateUnit handles POST /api/v1/tenants/:tenantId/equipment/:equipmentId/units.
func (s *Server) CreateUnit(c echo.Context) error {
	tenantID, equipmentID, err := scopeParams(c)
	if err != nil {
		return s.fail(c, err)
	}

	var req createUnitRequest
	if err = s.bind(c, &req); err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateUnitCommand(
		tenantID,
		equipmentID,
		req.Code,
		req.Prefix,
		req.ActorID,
		req.InitialBalance,
		unit.Attributes{
			SerialNumber: req.SerialNumber,
			Notes:        req.Notes,
			Condition:    req.Condition,
		},
	)
	if err != nil {
		return s.fail(c, err)
	}

	created, err := s.handlers.CreateUnit.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, unitFromDomain(created))
}

// Reconcile handles GET /api/v1/tenants/:tenantId/equipment/:equipmentId/reconciliation.
func (s *Server) Reconcile(c echo.Context) error {
	tenantID, equipmentID, err := scopeParams(c)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewReconcileEquipmentQuery(tenantID, equipmentID)
	if err != nil {
		return s.fail(c, err)
	}

	report, err := s.handlers.Reconcile.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, reconciliationFromReport(report))
}

// NextUnitCode handles GET /api/v1/tenants/:tenantId/unit-codes/next.
func (s *Server) NextUnitCode(c echo.Context) error {
	tenantID, err := kernel.ParseUUIDParam("tenantId", c.Param("tenantId"))
	if err != nil {
		return s.fail(c, err)
	}

	var prefix string
	if err = runtime.BindQueryParameter("form", true, false, "prefix", c.QueryParams(), &prefix); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("prefix", err))
	}

	query, err := queries.NewGetNextUnitCodeQuery(tenantID, prefix)
	if err != nil {
		return s.fail(c, err)
	}

	next, err := s.handlers.GetNextUnitCode.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, nextCodeResponse{Prefix: next.Prefix, Code: next.Code})
}

func (s *Server) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}

func scopeParams(c echo.Context) (kernel.UUID, kernel.UUID, error) {
	tenantID, tenantErr := kernel.ParseUUIDParam("tenantId", c.Param("tenantId"))
	equipmentID, equipmentErr := kernel.ParseUUIDParam("equipmentId", c.Param("equipmentId"))
	if err := errors.Join(tenantErr, equipmentErr); err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return tenantID, equipmentID, nil
}

func adjustCommand(tenantID kernel.UUID, equipmentID kernel.UUID, req adjustStockRequest) (commands.AdjustStockCommand, error) {
	movementType, err := movement.ParseType(req.Type)
	if err != nil {
		return commands.AdjustStockCommand{}, err
	}

	details := movement.Details{
		Reason:              req.Reason,
		LinkedRentalID:      req.LinkedRentalID,
		LinkedMaintenanceID: req.LinkedMaintenanceID,
	}
	if req.UnitID != "" {
		unitID, parseErr := kernel.ParseUUIDParam("unitId", req.UnitID)
		if parseErr != nil {
			return commands.AdjustStockCommand{}, parseErr
		}
		details.UnitID = &unitID
	}

	return commands.NewAdjustStockCommand(tenantID, equipmentID, movementType, req.Quantity, req.ActorID, details)
}

func reserveFailure(err error) error {
	return errs.NewPersistenceError("reserve idempotency key", err)
}
