package models

// Census summarises bed usage
type Census struct {
	Total           int               `json:"total"`
	ByStatus        map[BedStatus]int `json:"byStatus"`
	ByWard          map[Ward]int      `json:"byWard"`
	Occupied        int               `json:"occupied"`
	CriticalInUse   int               `json:"criticalInUse"`
	OccupancyRate   float64           `json:"occupancyRate"`
	WaitingPatients int               `json:"waitingPatients"`
}
