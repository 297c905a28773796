package kernel_test

import (
	"testing"
	"time"

	"stockledger/internal/core/domain/model/kernel"
	"stockledger/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const equipmentIDText = "550e8400-e29b-41d4-a716-446655440000"

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	assert.NoError(t, id1.Validate())
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, id1.String())
	assert.False(t, id1.IsEqual(id2))
}

func TestUUIDFromString(t *testing.T) {
	t.Run("should accept the textual forms", func(t *testing.T) {
		for _, input := range []string{
			equipmentIDText,
			"{550e8400-e29b-41d4-a716-446655440000}",
			"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
			"550e8400e29b41d4a716446655440000",
		} {
			id, err := kernel.UUIDFromString(input)

			require.NoError(t, err, input)
			assert.Equal(t, equipmentIDText, id.String())
		}
	})

	t.Run("should reject malformed text", func(t *testing.T) {
		for _, input := range []string{"", "EQP-0001", "550e8400-e29b-41d4-a716", "550e8400-e29b-41d4-a716-44665544000g"} {
			_, err := kernel.UUIDFromString(input)

			require.Error(t, err, input)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should restore an identifier read from a row", func(t *testing.T) {
		stored := uuid.MustParse(equipmentIDText)

		id, err := kernel.UUIDFromBytes(stored[:])

		require.NoError(t, err)
		assert.Equal(t, equipmentIDText, id.String())
		assert.Equal(t, stored, id.Bytes())
	})

	t.Run("should round trip through the column value", func(t *testing.T) {
		original := kernel.NewUUID()
		column := original.Bytes()

		restored, err := kernel.UUIDFromBytes(column[:])

		require.NoError(t, err)
		assert.True(t, original.IsEqual(restored))
	})

	t.Run("should reject columns of the wrong width", func(t *testing.T) {
		for _, raw := range [][]byte{nil, {0x55, 0x0e, 0x84}, make([]byte, 17)} {
			_, err := kernel.UUIDFromBytes(raw)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})

	t.Run("should reject an all-zero column", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID
	nilID, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)

	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, zero.Validate())
	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, nilID.Validate())
	assert.True(t, zero.IsEqual(nilID))
	assert.NoError(t, kernel.NewUUID().Validate())
}

func TestUUID_BytesIsACopy(t *testing.T) {
	original := kernel.NewUUID()
	text := original.String()

	column := original.Bytes()
	for i := range column {
		column[i] = 0xFF
	}

	assert.Equal(t, text, original.String())
}

func TestParseUUIDParam(t *testing.T) {
	tests := []struct {
		name      string
		param     string
		input     string
		wantErr   error
		wantValue string
	}{
		{name: "path identifier", param: "equipmentId", input: equipmentIDText, wantValue: equipmentIDText},
		{name: "braced identifier", param: "equipmentId", input: "{" + equipmentIDText + "}", wantValue: equipmentIDText},
		{name: "missing tenant header", param: "tenantId", input: "", wantErr: errs.ErrValueIsRequired},
		{name: "nil tenant", param: "tenantId", input: "00000000-0000-0000-0000-000000000000", wantErr: errs.ErrValueIsRequired},
		{name: "unit code instead of id", param: "unitId", input: "EQP-0001", wantErr: errs.ErrValueIsInvalid},
		{name: "padded identifier", param: "unitId", input: " " + equipmentIDText, wantErr: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := kernel.ParseUUIDParam(tt.param, tt.input)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.wantValue, id.String())
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, errs.ErrValidation)
			assert.Contains(t, err.Error(), tt.param)
			assert.Error(t, id.Validate())
		})
	}
}

func TestParseUUIDParam_NamesTheParameter(t *testing.T) {
	_, err := kernel.ParseUUIDParam("equipmentId", "not-a-uuid")

	var invalidErr *errs.ValueIsInvalidError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "equipmentId", invalidErr.ParamName)

	_, err = kernel.ParseUUIDParam("tenantId", "")

	var requiredErr *errs.ValueIsRequiredError
	require.ErrorAs(t, err, &requiredErr)
	assert.Equal(t, "tenantId", requiredErr.ParamName)
}

func TestSystemClock(t *testing.T) {
	now := kernel.SystemClock()

	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}
