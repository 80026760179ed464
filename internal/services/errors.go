package services

import (
	"fmt"
	"strings"
)

// DataIntegrityError reports input that references something that does not
// exist (a package id, an address missing from the distance table). The
// schedule cannot be computed from such input.
type DataIntegrityError struct {
	PackageID int
	Reason    string
	Err       error
}

func (e *DataIntegrityError) Error() string {
	msg := fmt.Sprintf("data integrity: package %d: %s", e.PackageID, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataIntegrityError) Unwrap() error { return e.Err }

// UnsatisfiableScheduleError reports a simulation round that delivered,
// loaded and waited for nothing while packages were still undelivered.
type UnsatisfiableScheduleError struct {
	Round     int
	Remaining []int
}

func (e *UnsatisfiableScheduleError) Error() string {
	ids := make([]string, 0, len(e.Remaining))
	for _, id := range e.Remaining {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf(
		"unsatisfiable schedule: no progress in round %d; undeliverable packages: %s",
		e.Round, strings.Join(ids, ", "),
	)
}
