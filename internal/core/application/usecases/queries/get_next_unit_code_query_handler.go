package queries

import (
	"context"

	"stockledger/internal/core/domain/model/unit"
	"stockledger/internal/core/domain/services"
	"stockledger/internal/core/ports"
)

// GetNextUnitCodeQueryHandler computes the next code from the greatest code
// issued under the prefix.
type GetNextUnitCodeQueryHandler struct {
	uowFactory    ports.UnitOfWorkFactory
	generator     services.CodeGenerator
	defaultPrefix string
}

// NewGetNextUnitCodeQueryHandler creates the handler. An empty defaultPrefix
// falls back to unit.DefaultCodePrefix.
func NewGetNextUnitCodeQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	generator services.CodeGenerator,
	defaultPrefix string,
) GetNextUnitCodeQueryHandler {
	if defaultPrefix == "" {
		defaultPrefix = unit.DefaultCodePrefix
	}
	return GetNextUnitCodeQueryHandler{
		uowFactory:    uowFactory,
		generator:     generator,
		defaultPrefix: defaultPrefix,
	}
}

func (h GetNextUnitCodeQueryHandler) Handle(
	ctx context.Context,
	query GetNextUnitCodeQuery,
) (GetNextUnitCodeQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetNextUnitCodeQueryResponse{}, err
	}

	prefix := query.Prefix()
	if prefix == "" {
		prefix = h.defaultPrefix
	}

	last, err := h.uowFactory.Create().UnitRepository().LastCode(ctx, query.TenantID(), prefix)
	if err != nil {
		return GetNextUnitCodeQueryResponse{}, err
	}

	code, err := h.generator.Next(prefix, last)
	if err != nil {
		return GetNextUnitCodeQueryResponse{}, err
	}

	return GetNextUnitCodeQueryResponse{Prefix: prefix, Code: code}, nil
}
