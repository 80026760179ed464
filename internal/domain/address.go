package domain

import (
	"fmt"
	"strings"
	"time"
)

// HubKey is the distance-table key of the depot every vehicle starts from and returns to.
const HubKey = "HUB"

// A postal delivery address. Street is the key used for distance lookups.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Key returns the whitespace-normalized street used to index the distance table.
func (a Address) Key() string {
	return NormalizeKey(a.Street)
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.Zip)
}

// NormalizeKey collapses whitespace so keys from different sources compare equal.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// An entry in a package's address history, effective from the given instant.
type AddressChange struct {
	Address       Address
	EffectiveFrom time.Time
}
