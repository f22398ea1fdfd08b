package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseWard(t *testing.T) {
	tests := []struct {
		in   string
		want Ward
		ok   bool
	}{
		{"ICU", WardICU, true},
		{"icu", WardICU, true},
		{" cardiology ", WardCardiology, true},
		{"PEDIATRICS", WardPediatrics, true},
		{"Oncology", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseWard(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseBedStatus(t *testing.T) {
	got, ok := ParseBedStatus("maintenance")
	assert.True(t, ok)
	assert.Equal(t, BedMaintenance, got)

	_, ok = ParseBedStatus("Asleep")
	assert.False(t, ok)
}

func TestParsePatientLocation(t *testing.T) {
	got, ok := ParsePatientLocation("admitted")
	assert.True(t, ok)
	assert.Equal(t, PatientAdmitted, got)

	_, ok = ParsePatientLocation("discharged")
	assert.False(t, ok)
}

func TestBedFilter_Matches(t *testing.T) {
	bed := &Bed{ID: 1, Ward: WardICU, Status: BedAvailable}

	assert.True(t, BedFilter{}.Matches(bed))
	assert.True(t, BedFilter{Ward: WardICU}.Matches(bed))
	assert.True(t, BedFilter{Ward: WardICU, Status: BedAvailable}.Matches(bed))
	assert.False(t, BedFilter{Status: BedOccupied}.Matches(bed))
	assert.False(t, BedFilter{Ward: WardGeneral, Status: BedAvailable}.Matches(bed))
}

func TestTypeForWard(t *testing.T) {
	assert.Equal(t, BedCritical, TypeForWard(WardICU))
	for _, w := range []Ward{WardCardiology, WardGeneral, WardPediatrics} {
		assert.Equal(t, BedStandard, TypeForWard(w))
	}
	assert.Equal(t, "BED-12", Bed{ID: 12}.Label())
}

func TestPatient_Score(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	p := &Patient{TriageLevel: 3, JoinedAt: now.Add(-90 * time.Minute)}

	assert.InDelta(t, 1.5, p.WaitHours(now), 1e-9)
	assert.InDelta(t, 1.5, p.Score(now), 1e-9)

	unset := &Patient{TriageLevel: 2}
	assert.Zero(t, unset.WaitHours(now))
	assert.Equal(t, 2.0, unset.Score(now))
}
