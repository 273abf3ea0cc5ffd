package models

import "github.com/shopspring/decimal"

type UnitType string

const (
	UnitTypeWeight UnitType = "weight"
	UnitTypeVolume UnitType = "volume"
	UnitTypeCount  UnitType = "count"
)

// Unit: ölçü birimi. BaseUnitID doluysa birim türetilmiştir,
// 1 birim = ConversionFactor adet base birim.
type Unit struct {
	ID               uint             `json:"id"`
	BusinessID       uint             `json:"business_id"`
	Name             string           `json:"name"`
	Symbol           string           `json:"symbol"`
	UnitType         UnitType         `json:"unit_type"`
	BaseUnitID       *uint            `json:"base_unit_id"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`
}
