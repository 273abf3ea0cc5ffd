package validation

import (
	"testing"

	"expense-backoffice/internal/apiclient"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineForm struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

type sampleForm struct {
	Name  string     `json:"name" validate:"required,max=20"`
	Date  string     `json:"date" validate:"required,isodate"`
	Lines []lineForm `json:"lines" validate:"min=1,dive"`
}

func TestStructValid(t *testing.T) {
	f := sampleForm{
		Name:  "Süt",
		Date:  "2025-03-01",
		Lines: []lineForm{{Quantity: decimal.NewFromFloat(1.5)}},
	}
	assert.NoError(t, Struct(f))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	f := sampleForm{
		Date:  "01.03.2025",
		Lines: []lineForm{{Quantity: decimal.Zero}},
	}

	err := Struct(f)
	require.Error(t, err)

	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, apiclient.CodeValidation, apiErr.Code)
	assert.Equal(t, "required", apiErr.Fields["name"])
	assert.Equal(t, "isodate", apiErr.Fields["date"])
	assert.Equal(t, "gt", apiErr.Fields["lines[0].quantity"])
}

func TestStructEmptySlice(t *testing.T) {
	f := sampleForm{Name: "x", Date: "2025-03-01"}

	apiErr, ok := apiclient.AsAPIError(Struct(f))
	require.True(t, ok)
	assert.Equal(t, "min", apiErr.Fields["lines"])
}
