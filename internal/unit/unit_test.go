package unit

import (
	"context"
	"strings"
	"testing"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T { return &v }

func sampleUnits() []models.Unit {
	return []models.Unit{
		{ID: 1, Name: "Kilogram", Symbol: "kg", UnitType: models.UnitTypeWeight},
		{ID: 2, Name: "Gram", Symbol: "g", UnitType: models.UnitTypeWeight, BaseUnitID: ptr(uint(1)), ConversionFactor: ptr(d("0.001"))},
		{ID: 3, Name: "Kasa", Symbol: "ksa", UnitType: models.UnitTypeWeight, BaseUnitID: ptr(uint(1)), ConversionFactor: ptr(d("12.5"))},
		{ID: 4, Name: "Litre", Symbol: "l", UnitType: models.UnitTypeVolume},
		{ID: 5, Name: "Broken", Symbol: "x", UnitType: models.UnitTypeWeight, BaseUnitID: ptr(uint(2)), ConversionFactor: ptr(d("2"))},
		{ID: 6, Name: "NoFactor", Symbol: "nf", UnitType: models.UnitTypeWeight, BaseUnitID: ptr(uint(1))},
	}
}

func TestConvert(t *testing.T) {
	cat := NewCatalog(sampleUnits())

	got, err := cat.Convert(d("1500"), 2, 1)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("1.5")))

	got, err = cat.Convert(d("2"), 3, 2)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("25000")))

	got, err = cat.Convert(d("25"), 1, 3)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("2")))

	got, err = cat.Convert(d("7"), 4, 4)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("7")))
}

func TestConvertErrors(t *testing.T) {
	cat := NewCatalog(sampleUnits())

	_, err := cat.Convert(d("1"), 1, 4)
	assert.True(t, apiclient.IsCode(err, apiclient.CodeValidation))

	_, err = cat.Convert(d("1"), 5, 1)
	assert.True(t, apiclient.IsCode(err, apiclient.CodeValidation), "iki seviyeli zincir reddedilir")

	_, err = cat.Convert(d("1"), 6, 1)
	assert.True(t, apiclient.IsCode(err, apiclient.CodeValidation))

	_, err = cat.Convert(d("1"), 99, 1)
	assert.True(t, apiclient.IsCode(err, apiclient.CodeNotFound))
}

func TestCompatible(t *testing.T) {
	cat := NewCatalog(sampleUnits())

	units, err := cat.Compatible(2)
	require.NoError(t, err)
	names := make([]string, 0, len(units))
	for _, u := range units {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"Gram", "Kasa", "Kilogram"}, names)

	units, err = cat.Compatible(4)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Litre", units[0].Name)
}

func TestCheckBase(t *testing.T) {
	cat := NewCatalog(sampleUnits())

	ok := UnitRequest{Name: "Ton", Symbol: "t", UnitType: models.UnitTypeWeight, BaseUnitID: ptr(uint(1)), ConversionFactor: ptr(d("1000"))}
	assert.NoError(t, ok.checkBase(cat, 0))

	nested := ok
	nested.BaseUnitID = ptr(uint(2))
	err := nested.checkBase(cat, 0)
	apiErr, isAPI := apiclient.AsAPIError(err)
	require.True(t, isAPI)
	assert.Equal(t, "base", apiErr.Fields["base_unit_id"])

	wrongType := ok
	wrongType.UnitType = models.UnitTypeVolume
	apiErr, _ = apiclient.AsAPIError(wrongType.checkBase(cat, 0))
	require.NotNil(t, apiErr)
	assert.Equal(t, "eqfield", apiErr.Fields["unit_type"])

	noFactor := ok
	noFactor.ConversionFactor = nil
	apiErr, _ = apiclient.AsAPIError(noFactor.checkBase(cat, 0))
	require.NotNil(t, apiErr)
	assert.Equal(t, "gt", apiErr.Fields["conversion_factor"])

	self := ok
	apiErr, _ = apiclient.AsAPIError(self.checkBase(cat, 1))
	require.NotNil(t, apiErr)
	assert.Equal(t, "exists", apiErr.Fields["base_unit_id"])
}

type countingLister struct {
	calls int
}

func (l *countingLister) ListUnits(ctx context.Context, businessID uint) ([]models.Unit, error) {
	l.calls++
	return sampleUnits(), nil
}

func TestStoreWithoutRedisAlwaysFetches(t *testing.T) {
	s := NewStore(time.Minute)
	l := &countingLister{}

	units, err := s.List(context.Background(), l, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Broken", units[0].Name)

	_, err = s.List(context.Background(), l, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, l.calls)

	s.Invalidate(context.Background(), 1)
}

func TestCacheKeysArePerUser(t *testing.T) {
	assert.NotEqual(t, cacheKey(7, 1), cacheKey(7, 2))
	assert.NotEqual(t, cacheKey(7, 1), cacheKey(70, 1))

	pattern := businessPattern(7)
	prefix := strings.TrimSuffix(pattern, "*")
	assert.True(t, strings.HasPrefix(cacheKey(7, 1), prefix))
	assert.True(t, strings.HasPrefix(cacheKey(7, 2), prefix))
	assert.False(t, strings.HasPrefix(cacheKey(70, 1), prefix))
}
