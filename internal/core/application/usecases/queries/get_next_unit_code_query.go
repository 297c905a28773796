package queries

import (
	"errors"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/core/domain/model/unit"
	"stockledger/internal/pkg/errs"
	"stockledger/internal/pkg/guard"
)

var (
	ErrGetNextUnitCodeQueryIsNotConstructed = errors.New(
		"GetNextUnitCodeQuery must be created via NewGetNextUnitCodeQuery constructor",
	)
)

// GetNextUnitCodeQuery previews the code the next registered unit would get
// under a prefix. The answer is advisory: a concurrent registration may take it.
type GetNextUnitCodeQuery struct {
	tenantID kernel.UUID
	prefix   string

	guard guard.ConstructorGuard
}

// NewGetNextUnitCodeQuery creates the query. An empty prefix is resolved by the
// handler to its configured default.
func NewGetNextUnitCodeQuery(tenantID kernel.UUID, prefix string) (GetNextUnitCodeQuery, error) {
	var validationErrs []error
	if err := tenantID.Validate(); err != nil {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredErrorWithCause("tenantId", err))
	}
	if prefix != "" {
		if err := unit.ValidatePrefix(prefix); err != nil {
			validationErrs = append(validationErrs, err)
		}
	}
	if err := errors.Join(validationErrs...); err != nil {
		return GetNextUnitCodeQuery{}, err
	}

	return GetNextUnitCodeQuery{
		tenantID: tenantID,
		prefix:   prefix,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetNextUnitCodeQuery) Validate() error {
	return q.guard.Validate(ErrGetNextUnitCodeQueryIsNotConstructed)
}

func (q GetNextUnitCodeQuery) TenantID() kernel.UUID {
	return q.tenantID
}

func (q GetNextUnitCodeQuery) Prefix() string {
	return q.prefix
}

type GetNextUnitCodeQueryResponse struct {
	Prefix string
	Code   string
}
