package config

import (
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/services"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AddressConfig struct {
	Street string `yaml:"street"`
	City   string `yaml:"city"`
	State  string `yaml:"state"`
	Zip    string `yaml:"zip"`
}

func (a AddressConfig) toDomain() domain.Address {
	return domain.Address{Street: a.Street, City: a.City, State: a.State, Zip: a.Zip}
}

type VehicleConfig struct {
	ID       int     `yaml:"id"`
	Capacity int     `yaml:"capacity"`
	SpeedMPH float64 `yaml:"speed_mph"`
	Start    string  `yaml:"start"`
}

type CorrectionConfig struct {
	PackageID int           `yaml:"package_id"`
	After     string        `yaml:"after"`
	Address   AddressConfig `yaml:"address"`
}

// FleetConfig is the YAML description of a service day: when it starts, the
// hub, the vehicles, and the known address corrections.
type FleetConfig struct {
	ServiceDate        string             `yaml:"service_date"`
	DayStart           string             `yaml:"day_start"`
	Hub                AddressConfig      `yaml:"hub"`
	Vehicles           []VehicleConfig    `yaml:"vehicles"`
	AddressCorrections []CorrectionConfig `yaml:"address_corrections"`
}

const (
	DefaultCapacity = 16
	DefaultSpeedMPH = 18
	DefaultDayStart = "08:00"
)

// DefaultFleet is three vehicles leaving at 08:00, 09:05 and 10:20.
func DefaultFleet() FleetConfig {
	return FleetConfig{
		DayStart: DefaultDayStart,
		Vehicles: []VehicleConfig{
			{ID: 1, Capacity: DefaultCapacity, SpeedMPH: DefaultSpeedMPH, Start: "08:00"},
			{ID: 2, Capacity: DefaultCapacity, SpeedMPH: DefaultSpeedMPH, Start: "09:05"},
			{ID: 3, Capacity: DefaultCapacity, SpeedMPH: DefaultSpeedMPH, Start: "10:20"},
		},
	}
}

// LoadFleet reads a fleet file. An empty path yields DefaultFleet. Missing
// vehicle fields take the defaults.
func LoadFleet(path string) (FleetConfig, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultFleet(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FleetConfig{}, fmt.Errorf("load fleet: read %q: %w", path, err)
	}
	return ParseFleet(data)
}

func ParseFleet(data []byte) (FleetConfig, error) {
	var cfg FleetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FleetConfig{}, fmt.Errorf("load fleet: parse yaml: %w", err)
	}

	if cfg.DayStart == "" {
		cfg.DayStart = DefaultDayStart
	}
	if len(cfg.Vehicles) == 0 {
		cfg.Vehicles = DefaultFleet().Vehicles
	}
	for i := range cfg.Vehicles {
		v := &cfg.Vehicles[i]
		if v.Capacity == 0 {
			v.Capacity = DefaultCapacity
		}
		if v.SpeedMPH == 0 {
			v.SpeedMPH = DefaultSpeedMPH
		}
		if v.Start == "" {
			v.Start = cfg.DayStart
		}
	}

	return cfg, nil
}

// Day returns the service date, or today's date in UTC when none is set.
func (c FleetConfig) Day(now time.Time) (time.Time, error) {
	if c.ServiceDate == "" {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.Parse(time.DateOnly, c.ServiceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("fleet service_date %q: %w", c.ServiceDate, err)
	}
	return day, nil
}

// ToRequest converts the fleet into a simulation request.
func (c FleetConfig) ToRequest(now time.Time) (services.PlanDeliveriesRequest, error) {
	day, err := c.Day(now)
	if err != nil {
		return services.PlanDeliveriesRequest{}, err
	}

	dayStart, err := domain.ParseClock(c.DayStart)
	if err != nil {
		return services.PlanDeliveriesRequest{}, fmt.Errorf("fleet day_start: %w", err)
	}

	req := services.PlanDeliveriesRequest{Day: day, DayStart: dayStart}

	if len(c.Vehicles) == 0 {
		return services.PlanDeliveriesRequest{}, errors.New("fleet has no vehicles")
	}
	for _, v := range c.Vehicles {
		start, err := domain.ParseClock(v.Start)
		if err != nil {
			return services.PlanDeliveriesRequest{}, fmt.Errorf("fleet vehicle %d start: %w", v.ID, err)
		}
		req.Vehicles = append(req.Vehicles, services.VehicleSpec{
			VehicleID: v.ID,
			Capacity:  v.Capacity,
			SpeedMPH:  v.SpeedMPH,
			Start:     start,
		})
	}

	for _, ac := range c.AddressCorrections {
		var after time.Duration
		if ac.After != "" {
			after, err = domain.ParseClock(ac.After)
			if err != nil {
				return services.PlanDeliveriesRequest{}, fmt.Errorf("fleet correction for package %d: %w", ac.PackageID, err)
			}
		}
		req.Corrections = append(req.Corrections, services.CorrectionSpec{
			PackageID: ac.PackageID,
			After:     after,
			Address:   ac.Address.toDomain(),
		})
	}

	return req, nil
}
