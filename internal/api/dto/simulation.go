package dto

import "time"

// SimulationRequest overrides parts of the configured fleet. Every field is optional.
type SimulationRequest struct {
	ServiceDate string           `json:"service_date"`
	DayStart    string           `json:"day_start"`
	Vehicles    []VehicleRequest `json:"vehicles"`
}

type VehicleRequest struct {
	VehicleID int     `json:"vehicle_id"`
	Capacity  int     `json:"capacity"`
	SpeedMPH  float64 `json:"speed_mph"`
	Start     string  `json:"start"`
}

type StopResponse struct {
	Destination string    `json:"destination"`
	ArriveAt    time.Time `json:"arrive_at"`
	PackageIDs  []int     `json:"package_ids"`
}

type TripResponse struct {
	VehicleID int            `json:"vehicle_id"`
	DepartAt  time.Time      `json:"depart_at"`
	ReturnAt  time.Time      `json:"return_at"`
	Miles     float64        `json:"miles"`
	Stops     []StopResponse `json:"stops"`
}

type SimulationResponse struct {
	RunID       string         `json:"run_id"`
	ServiceDate string         `json:"service_date"`
	TotalMiles  float64        `json:"total_miles"`
	Rounds      int            `json:"rounds"`
	CompletedAt time.Time      `json:"completed_at"`
	Late        []int          `json:"late_package_ids"`
	Trips       []TripResponse `json:"trips"`
}

type PackageStatusResponse struct {
	PackageID   int        `json:"package_id"`
	Address     string     `json:"address"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `json:"status"`
	VehicleID   *int       `json:"vehicle_id"`
	LoadedAt    *time.Time `json:"loaded_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	OnTime      *bool      `json:"on_time"`
}

type VehicleStatusResponse struct {
	VehicleID int     `json:"vehicle_id"`
	Miles     float64 `json:"miles"`
	Location  string  `json:"location"`
	Load      []int   `json:"load"`
}

type SnapshotResponse struct {
	RunID      string                  `json:"run_id"`
	At         time.Time               `json:"at"`
	TotalMiles float64                 `json:"total_miles"`
	Packages   []PackageStatusResponse `json:"packages"`
	Vehicles   []VehicleStatusResponse `json:"vehicles"`
}
