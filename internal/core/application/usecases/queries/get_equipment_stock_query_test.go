package queries_test

import (
	"testing"

	"stockledger/internal/core/application/usecases/queries"
	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetEquipmentStockQuery_Valid(t *testing.T) {
	query, err := queries.NewGetEquipmentStockQuery(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	require.NoError(t, query.Validate())
}

func TestNewGetEquipmentStockQuery_MissingIdentifiers(t *testing.T) {
	_, err := queries.NewGetEquipmentStockQuery(kernel.UUID{}, kernel.UUID{})

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Contains(t, err.Error(), "tenantId")
	assert.Contains(t, err.Error(), "equipmentId")
}

func TestGetEquipmentStockQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetEquipmentStockQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetEquipmentStockQueryIsNotConstructed)
}
