package service

import (
	"bytes"
	"fmt"

	"bedflow/internal/models"
	"bedflow/internal/repository"

	"github.com/xuri/excelize/v2"
)

const censusSheet = "Bed Census"

// CensusExportHeader is the header row of the census workbook
var CensusExportHeader = []string{
	"Bed",
	"Ward",
	"Type",
	"Status",
	"Distance From Station",
	"Patient ID",
	"Patient Name",
	"Triage Level",
}

type CensusService struct {
	store *repository.Store
}

func NewCensusService(store *repository.Store) *CensusService {
	return &CensusService{store: store}
}

// Census counts beds per status and ward
func (s *CensusService) Census() models.Census {
	census := models.Census{
		ByStatus: make(map[models.BedStatus]int, len(models.BedStatuses)),
		ByWard:   make(map[models.Ward]int, len(models.Wards)),
	}
	for _, st := range models.BedStatuses {
		census.ByStatus[st] = 0
	}
	for _, w := range models.Wards {
		census.ByWard[w] = 0
	}

	_ = s.store.Atomic(func() error {
		for _, bed := range s.store.Beds.ListBeds(models.BedFilter{}) {
			census.Total++
			census.ByStatus[bed.Status]++
			census.ByWard[bed.Ward]++
			if bed.Status == models.BedOccupied {
				census.Occupied++
				if bed.Type == models.BedCritical {
					census.CriticalInUse++
				}
			}
		}
		census.WaitingPatients = s.store.Patients.Len()
		return nil
	})

	if census.Total > 0 {
		census.OccupancyRate = float64(census.Occupied) / float64(census.Total)
	}
	return census
}

// ExportXLSX renders one row per bed into an Excel workbook
func (s *CensusService) ExportXLSX() ([]byte, error) {
	var beds []models.Bed
	_ = s.store.Atomic(func() error {
		for _, b := range s.store.Beds.ListBeds(models.BedFilter{}) {
			beds = append(beds, *b)
		}
		return nil
	})

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", censusSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range CensusExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(censusSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(censusSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}
	if err := f.SetColWidth(censusSheet, "A", "H", 18); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	for i, bed := range beds {
		row := []any{bed.Label(), string(bed.Ward), string(bed.Type), string(bed.Status), bed.DistanceFromStation}
		if bed.Patient != nil {
			row = append(row, bed.Patient.ID, bed.Patient.Name, bed.Patient.TriageLevel)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(censusSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(censusSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
