package dto

type PackageResponse struct {
	PackageID   int     `json:"package_id"`
	Street      string  `json:"street"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Zip         string  `json:"zip"`
	Deadline    string  `json:"deadline"`
	WeightKilos float64 `json:"weight_kilos"`
	Notes       string  `json:"notes,omitempty"`
}

type ListPackagesResponse struct {
	Packages []PackageResponse `json:"packages"`
}
