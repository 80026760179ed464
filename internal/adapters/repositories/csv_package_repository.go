package repositories

import (
	"context"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/importer"
	"fmt"
	"os"
	"slices"
)

// CSVPackageRepository reads package records straight from a package CSV
// file on every call.
type CSVPackageRepository struct{ Path string }

func NewCSVPackageRepository(path string) *CSVPackageRepository {
	return &CSVPackageRepository{Path: path}
}

func (c *CSVPackageRepository) ListPackages(ctx context.Context) ([]domain.PackageRecord, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("list packages: open %q: %w", c.Path, err)
	}
	defer f.Close()

	recs, err := importer.ReadPackages(f)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	slices.SortFunc(recs, func(a, b domain.PackageRecord) int { return a.PackageID - b.PackageID })
	return recs, nil
}
