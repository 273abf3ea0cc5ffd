package models

import "github.com/shopspring/decimal"

func init() {
	// Tutarlar JSON'da string değil sayı olarak gitsin
	decimal.MarshalJSONWithoutQuotes = true
}
