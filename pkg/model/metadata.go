package model

import "time"

// Metadata describes a listed instrument. Sector is the only attribute the
// query layer filters on; the rest is passed through.
type Metadata struct {
	Symbol    string `json:"symbol"`
	Sector    string `json:"sector"`
	Name      string `json:"name"`
	SubSector string `json:"sub_sector"`
	Industry  string `json:"industry"`
	ListedOn  *Date  `json:"listed_on"`
}

// Report is a published sector report keyed by sub-sector.
type Report struct {
	SubSector   string     `json:"sub_sector"`
	Title       string     `json:"title"`
	Period      string     `json:"period"`
	Summary     string     `json:"summary"`
	PublishedAt *time.Time `json:"published_at"`
}
