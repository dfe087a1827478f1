package models

import "wastewatch/internal/geo"

// Place is a map location together with its human-readable form.
type Place struct {
	Coords  geo.Coordinates `json:"coords"`
	Address string          `json:"address"`
}
