package model

import "github.com/shopspring/decimal"

// Participant is one entry of a trade's top-buyers or top-sellers list.
type Participant struct {
	Name   string          `json:"name"`
	Volume decimal.Decimal `json:"volume"`
}

// Trade is the daily institutional activity for one instrument.
type Trade struct {
	Symbol         string          `json:"symbol"`
	Date           Date            `json:"date"`
	NetTransaction decimal.Decimal `json:"net_transaction"`
	TopBuyers      []Participant   `json:"top_buyers"`
	TopSellers     []Participant   `json:"top_sellers"`
}
