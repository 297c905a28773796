package commands

import (
	"context"
	"errors"
	"time"

	"stockledger/internal/core/domain/model/equipment"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/movement"
	"stockledger/internal/core/domain/model/unit"
	"stockledger/internal/core/domain/services"
	"stockledger/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

const registrationReason = "unit registration"

// CreateUnitSettings tunes unit registration.
type CreateUnitSettings struct {
	// DefaultPrefix is used when the command carries no prefix.
	DefaultPrefix string

	// MaxAttempts bounds how often a registration with a generated code is
	// tried when the code turns out to be taken.
	MaxAttempts int

	// RetryInterval is the initial wait between attempts.
	RetryInterval time.Duration
}

// DefaultCreateUnitSettings returns the settings used when none are configured.
func DefaultCreateUnitSettings() CreateUnitSettings {
	return CreateUnitSettings{
		DefaultPrefix: unit.DefaultCodePrefix,
		MaxAttempts:   5,
		RetryInterval: 20 * time.Millisecond,
	}
}

// CreateUnitCommandHandler registers a unit in one transaction: the unit row
// (AVAILABLE), its acquisition movement and the totalQty increment.
//
// Generated codes are read and written inside the same transaction and are
// guarded by the unique (tenant, code) constraint. When a concurrent
// registration took the code first, the whole transaction is retried with a
// fresh code.
//
// Example:
//
//	handler := NewCreateUnitCommandHandler(uowFactory, services.NewCodeGenerator(nil), nil, nil, DefaultCreateUnitSettings())
//	cmd, _ := NewCreateUnitCommand(tenantID, equipmentID, "", "", "", false, unit.Attributes{})
//	u, err := handler.Handle(ctx, cmd) // u.Code() == "EQP-0001" on an empty tenant
type CreateUnitCommandHandler struct {
	uowFactory StockUoWFactory
	generator  services.CodeGenerator
	clock      kernel.Clock
	recorder   StockRecorder
	settings   CreateUnitSettings
}

// NewCreateUnitCommandHandler creates the handler. Zero settings fields fall back
// to DefaultCreateUnitSettings.
func NewCreateUnitCommandHandler(
	uowFactory StockUoWFactory,
	generator services.CodeGenerator,
	clock kernel.Clock,
	recorder StockRecorder,
	settings CreateUnitSettings,
) CreateUnitCommandHandler {
	defaults := DefaultCreateUnitSettings()
	if settings.DefaultPrefix == "" {
		settings.DefaultPrefix = defaults.DefaultPrefix
	}
	if settings.MaxAttempts <= 0 {
		settings.MaxAttempts = defaults.MaxAttempts
	}
	if settings.RetryInterval <= 0 {
		settings.RetryInterval = defaults.RetryInterval
	}
	if clock == nil {
		clock = kernel.SystemClock
	}

	return CreateUnitCommandHandler{
		uowFactory: uowFactory,
		generator:  generator,
		clock:      clock,
		recorder:   recorderOrNop(recorder),
		settings:   settings,
	}
}

// Handle registers the unit and returns it.
//
// Returns:
//   - ObjectNotFoundError when the equipment does not exist within the tenant
//   - ObjectAlreadyExistsError when an explicit code is taken, or when every
//     attempt with a generated code collided
//   - PersistenceError on storage failure
func (h CreateUnitCommandHandler) Handle(ctx context.Context, command CreateUnitCommand) (*unit.Unit, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	prefix := command.Prefix()
	if prefix == "" {
		prefix = h.settings.DefaultPrefix
	}

	attempt := func() (*unit.Unit, error) {
		registered, err := h.register(ctx, command, prefix)
		if err == nil {
			return registered, nil
		}
		if command.Code() == "" && errors.Is(err, errs.ErrObjectAlreadyExists) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = h.settings.RetryInterval
	policy.MaxElapsedTime = 0

	return backoff.RetryWithData[*unit.Unit](
		attempt,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(h.settings.MaxAttempts-1)), ctx),
	)
}

func (h CreateUnitCommandHandler) register(ctx context.Context, command CreateUnitCommand, prefix string) (*unit.Unit, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, errs.NewPersistenceError("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	equipmentRepo := uow.EquipmentRepository()
	unitRepo := uow.UnitRepository()

	if _, err := equipmentRepo.Get(ctx, command.TenantID(), command.EquipmentID()); err != nil {
		return nil, err
	}

	code := command.Code()
	if code == "" {
		lastCode, err := unitRepo.LastCode(ctx, command.TenantID(), prefix)
		if err != nil {
			return nil, err
		}
		if code, err = h.generator.Next(prefix, lastCode); err != nil {
			return nil, err
		}
	}

	registered, err := unit.NewUnit(kernel.NewUUID(), command.TenantID(), command.EquipmentID(), code, command.Attributes())
	if err != nil {
		return nil, err
	}

	if err = unitRepo.Add(ctx, registered); err != nil {
		return nil, err
	}

	unitID := registered.ID()
	acquisition, err := movement.NewMovement(
		kernel.NewUUID(),
		command.TenantID(),
		command.EquipmentID(),
		command.AcquisitionType(),
		1,
		command.ActorID(),
		h.clock(),
		movement.Details{UnitID: &unitID, Reason: registrationReason},
	)
	if err != nil {
		return nil, err
	}

	if _, err = uow.MovementRepository().Append(ctx, acquisition); err != nil {
		return nil, err
	}

	if _, err = equipmentRepo.ApplyDelta(ctx, command.TenantID(), command.EquipmentID(), equipment.CounterDelta{Total: 1}); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, errs.NewPersistenceError("commit transaction", err)
	}

	recordCommitted(h.recorder, uow.TrackedAggregates())
	return registered, nil
}
