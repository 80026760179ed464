package importer

import (
	"delivery-scheduler/internal/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const packagesCSV = `Package ID,Address,City,State,Zip,Delivery Deadline,Weight KILO,Special Notes
1,195 W Oakland Ave,Salt Lake City,UT,84115,10:30 AM,21,
6,3060 Lester St,West Valley City,UT,84119,0.4375,88,Delayed on flight---will not arrive to depot until 9:05 am
9,300 State St,Salt Lake City,UT,84103,EOD,2,Wrong address listed

14,4300 S 1300 E,Millcreek,UT,84117,10:30 AM,88,"Must be delivered with 15, 19"
`

func TestReadPackages(t *testing.T) {
	recs, err := ReadPackages(strings.NewReader(packagesCSV))
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, domain.PackageRecord{
		PackageID:   1,
		Address:     domain.Address{Street: "195 W Oakland Ave", City: "Salt Lake City", State: "UT", Zip: "84115"},
		Deadline:    "10:30",
		WeightKilos: 21,
	}, recs[0])

	assert.Equal(t, "10:30", recs[1].Deadline, "day fraction 0.4375 is 10:30")
	assert.Equal(t, "EOD", recs[2].Deadline)
	assert.Equal(t, "Must be delivered with 15, 19", recs[3].Notes)
}

func TestReadPackagesErrors(t *testing.T) {
	_, err := ReadPackages(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ReadPackages(strings.NewReader("h\nx,a,c,s,z,EOD,1,\n"))
	assert.Error(t, err)

	_, err = ReadPackages(strings.NewReader("h\n1,a,c,s,z,noon,1,\n"))
	assert.Error(t, err)
}

const distancesCSV = `"Western Governors University
4001 South 700 East","4001 South 700 East (84107)",0,,
"International Peace Gardens","1060 Dalton Ave S (84104)",7.2,0,
"Sugar House Park","1330 2100 S (84106)",3.8,7.1,0
`

func TestReadDistances(t *testing.T) {
	m, locs, err := ReadDistances(strings.NewReader(distancesCSV))
	require.NoError(t, err)
	require.Len(t, locs, 3)

	assert.Equal(t, "4001 South 700 East", locs[0].Street)
	assert.Equal(t, "84104", locs[1].Zip)

	d, err := m.Distance(domain.HubKey, "1330 2100 S")
	require.NoError(t, err)
	assert.InDelta(t, 3.8, d, 1e-9)

	d, err = m.Distance("1060 Dalton Ave S", "1330 2100 S")
	require.NoError(t, err)
	assert.InDelta(t, 7.1, d, 1e-9)

	d, err = m.Distance("1330 2100 S", "1060 Dalton Ave S")
	require.NoError(t, err)
	assert.InDelta(t, 7.1, d, 1e-9)
}

func TestReadDistancesRejectsBadCell(t *testing.T) {
	_, _, err := ReadDistances(strings.NewReader("Hub,1 Main St,0\nOther,2 Main St,x,0\n"))
	assert.Error(t, err)
}
