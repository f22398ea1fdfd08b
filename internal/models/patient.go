package models

import (
	"strings"
	"time"
)

const (
	MinTriageLevel = 1
	MaxTriageLevel = 5
)

// Patient is a person waiting for, or holding, a bed.
// Metadata carries optional clinical fields supplied by the caller.
type Patient struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	TriageLevel int            `json:"triageLevel"`
	Condition   string         `json:"condition,omitempty"`
	JoinedAt    time.Time      `json:"joinedAt"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// PatientData is the caller-supplied part of a new patient record
type PatientData struct {
	Name        string         `json:"name" binding:"required"`
	TriageLevel int            `json:"triageLevel" binding:"required,min=1,max=5"`
	Condition   string         `json:"condition"`
	Metadata    map[string]any `json:"metadata"`
}

// WaitHours is the elapsed queue time in hours; zero when JoinedAt is unset
func (p *Patient) WaitHours(now time.Time) float64 {
	if p.JoinedAt.IsZero() {
		return 0
	}
	return now.Sub(p.JoinedAt).Hours()
}

// Score is the urgency value used for queue ordering; lower is more urgent
func (p *Patient) Score(now time.Time) float64 {
	return float64(p.TriageLevel) - p.WaitHours(now)
}

// QueueEntry is one ranked row of the waiting queue
type QueueEntry struct {
	Patient
	Position  int     `json:"position"`
	Score     float64 `json:"score"`
	WaitHours float64 `json:"waitHours"`
}

// PatientLocation says where a live patient currently is
type PatientLocation string

const (
	PatientWaiting  PatientLocation = "Waiting"
	PatientAdmitted PatientLocation = "Admitted"
)

// ParsePatientLocation matches a location name case-insensitively
func ParsePatientLocation(s string) (PatientLocation, bool) {
	for _, l := range []PatientLocation{PatientWaiting, PatientAdmitted} {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, true
		}
	}
	return "", false
}

// DirectoryEntry is a patient directory row
type DirectoryEntry struct {
	Patient
	Status PatientLocation `json:"status"`
	BedID  *uint           `json:"bedId,omitempty"`
	Ward   Ward            `json:"ward,omitempty"`
}
