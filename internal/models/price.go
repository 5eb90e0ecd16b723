package models

import "time"

// PricePoint represents one daily closing price for a symbol
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PreviewRow represents one recent (date, return) pair surfaced for display
type PreviewRow struct {
	Date   string  `json:"date"`
	Return float64 `json:"return"`
}
