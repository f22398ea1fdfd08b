package models

import (
	"fmt"
	"strings"
)

// Ward is the specialty category a bed belongs to
type Ward string

const (
	WardICU        Ward = "ICU"
	WardCardiology Ward = "Cardiology"
	WardGeneral    Ward = "General"
	WardPediatrics Ward = "Pediatrics"
)

// Wards lists every ward in display order
var Wards = []Ward{WardICU, WardCardiology, WardGeneral, WardPediatrics}

// ParseWard matches a ward name case-insensitively
func ParseWard(s string) (Ward, bool) {
	for _, w := range Wards {
		if strings.EqualFold(string(w), strings.TrimSpace(s)) {
			return w, true
		}
	}
	return "", false
}

// BedStatus is the state of a bed in its lifecycle
type BedStatus string

const (
	BedAvailable   BedStatus = "Available"
	BedOccupied    BedStatus = "Occupied"
	BedCleaning    BedStatus = "Cleaning"
	BedReserved    BedStatus = "Reserved"
	BedMaintenance BedStatus = "Maintenance"
	BedDamaged     BedStatus = "Damaged"
)

// BedStatuses lists every status in display order
var BedStatuses = []BedStatus{BedAvailable, BedOccupied, BedCleaning, BedReserved, BedMaintenance, BedDamaged}

// ParseBedStatus matches a status name case-insensitively
func ParseBedStatus(s string) (BedStatus, bool) {
	for _, st := range BedStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// BedType is a display classification derived from the ward
type BedType string

const (
	BedCritical BedType = "Critical"
	BedStandard BedType = "Standard"
)

// TypeForWard returns the bed type shown for beds of the given ward
func TypeForWard(w Ward) BedType {
	if w == WardICU {
		return BedCritical
	}
	return BedStandard
}

// Bed represents a single allocatable hospital bed.
// Patient is set if and only if Status is BedOccupied.
type Bed struct {
	ID                  uint      `json:"id"`
	Ward                Ward      `json:"ward"`
	Status              BedStatus `json:"status"`
	DistanceFromStation float64   `json:"distanceFromStation"`
	Type                BedType   `json:"type"`
	Patient             *Patient  `json:"patient"`
}

// Label is the human readable bed name
func (b Bed) Label() string {
	return fmt.Sprintf("BED-%d", b.ID)
}

// BedFilter narrows a bed listing; zero values match everything
type BedFilter struct {
	Status BedStatus
	Ward   Ward
}

// Matches reports whether the bed passes the filter
func (f BedFilter) Matches(b *Bed) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Ward != "" && b.Ward != f.Ward {
		return false
	}
	return true
}
