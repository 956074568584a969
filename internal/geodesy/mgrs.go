package geodesy

import (
	"math"
	"strconv"
	"strings"

	"github.com/gridfix/gridfix/internal/coordinate"
)

// latBandTable maps floor((lat+80)/8) to a latitude band letter. The table
// deliberately carries 21 characters with a repeated trailing X: bands are
// 8 degrees wide except X, which is stretched to cover 72..84, so latitudes
// in [80, 84] index the final entry. Do not shorten the table.
const latBandTable = "CDEFGHJKLMNPQRSTUVWXX"

const squareSize = 100000.0 // 100 km grid squares

// UTMToMGRS encodes a UTM coordinate as an MGRS reference at the given
// precision (1..5 digit pairs). Sub-square metres are truncated, not rounded,
// so a reference always names the cell containing the point.
func UTMToMGRS(zone int, hemisphere string, easting, northing float64, precision int) (coordinate.MGRS, error) {
	if precision < 1 || precision > 5 {
		return coordinate.MGRS{}, invalidf("precision %d out of range [1, 5]", precision)
	}

	ll, err := UTMToLatLng(zone, hemisphere, easting, northing)
	if err != nil {
		return coordinate.MGRS{}, err
	}
	band, err := latitudeBand(ll.Lat)
	if err != nil {
		return coordinate.MGRS{}, err
	}

	set := ((zone - 1) % 6) + 1

	colIdx := int(math.Floor(easting / squareSize)) // 1..8 within the zone
	if colIdx < 1 || colIdx > 8 {
		return coordinate.MGRS{}, invalidf("easting %g outside zone column range", easting)
	}
	col := coordinate.ColumnLetters[columnOffset(set)+colIdx-1]

	rowIdx := (int(math.Floor(northing/squareSize)) + rowOffset(set)) % len(coordinate.RowLetters)
	row := coordinate.RowLetters[rowIdx]

	factor := math.Pow(10, float64(5-precision))

	return coordinate.MGRS{
		GridZone:   strconv.Itoa(zone) + string(band),
		GridSquare: string(col) + string(row),
		Easting:    int(math.Floor(math.Mod(easting, squareSize) / factor)),
		Northing:   int(math.Floor(math.Mod(northing, squareSize) / factor)),
		Precision:  precision,
	}, nil
}

// MGRSToUTM reconstructs the UTM coordinate an MGRS reference denotes. The
// result is centred within the precision cell (truncated digits plus half the
// cell width), so a precision-5 reference round-trips within 1 m.
func MGRSToUTM(gridZone, gridSquare string, easting, northing, precision int) (coordinate.UTM, error) {
	if precision < 1 || precision > 5 {
		return coordinate.UTM{}, invalidf("precision %d out of range [1, 5]", precision)
	}
	if len(gridZone) < 2 || len(gridZone) > 3 {
		return coordinate.UTM{}, invalidf("grid zone %q must be zone digits plus a band letter", gridZone)
	}

	zone, err := strconv.Atoi(gridZone[:len(gridZone)-1])
	if err != nil || zone < 1 || zone > 60 {
		return coordinate.UTM{}, invalidf("grid zone %q has an invalid zone number", gridZone)
	}
	band := gridZone[len(gridZone)-1]
	bandIdx := strings.IndexByte(coordinate.BandLetters, band)
	if bandIdx < 0 {
		return coordinate.UTM{}, invalidf("grid zone %q has an invalid band letter", gridZone)
	}
	if len(gridSquare) != 2 {
		return coordinate.UTM{}, invalidf("grid square %q must be two letters", gridSquare)
	}

	set := ((zone - 1) % 6) + 1

	// Bounded linear scan over the column candidates for this zone's set.
	colIdx := -1
	for i := 0; i < 8; i++ {
		if coordinate.ColumnLetters[columnOffset(set)+i] == gridSquare[0] {
			colIdx = i + 1
			break
		}
	}
	if colIdx < 0 {
		return coordinate.UTM{}, invalidf("grid square column %q is not valid in zone %d", string(gridSquare[0]), zone)
	}

	// Same for the 20 row candidates.
	rowIdx := -1
	for i := 0; i < len(coordinate.RowLetters); i++ {
		if coordinate.RowLetters[(i+rowOffset(set))%len(coordinate.RowLetters)] == gridSquare[1] {
			rowIdx = i
			break
		}
	}
	if rowIdx < 0 {
		return coordinate.UTM{}, invalidf("grid square row %q is invalid", string(gridSquare[1]))
	}

	factor := math.Pow(10, float64(5-precision))
	maxDigits := int(math.Pow(10, float64(precision)))
	if easting < 0 || easting >= maxDigits || northing < 0 || northing >= maxDigits {
		return coordinate.UTM{}, invalidf("easting/northing digits out of range for precision %d", precision)
	}

	fullEasting := float64(colIdx)*squareSize + float64(easting)*factor + factor/2

	// Row letters repeat every 2,000 km; the latitude band picks the cycle.
	// The minimum northing of the band is the northing of its southern edge
	// at the central meridian, where northing is smallest.
	bandBottom := -80.0 + 8.0*float64(bandIdx)
	hemisphere := coordinate.HemisphereNorth
	if band < 'N' {
		hemisphere = coordinate.HemisphereSouth
	}
	edge, err := LatLngToUTM(bandBottom, CentralMeridian(zone))
	if err != nil {
		return coordinate.UTM{}, err
	}
	minNorthing := edge.Northing

	partialNorthing := float64(rowIdx)*squareSize + float64(northing)*factor + factor/2
	fullNorthing := math.Floor(minNorthing/2000000)*2000000 + partialNorthing
	for fullNorthing+squareSize < minNorthing {
		fullNorthing += 2000000
	}

	return coordinate.UTM{
		Zone:       zone,
		Hemisphere: hemisphere,
		Easting:    roundCentimetre(fullEasting),
		Northing:   roundCentimetre(fullNorthing),
	}, nil
}

// latitudeBand returns the band letter for a latitude, or an error outside
// the MGRS domain [-80, 84].
func latitudeBand(lat float64) (byte, error) {
	if lat < -80 || lat > 84 {
		return 0, invalidf("latitude %g outside MGRS bands [-80, 84]", lat)
	}
	idx := int(math.Floor((lat + 80) / 8))
	if idx >= len(latBandTable) {
		idx = len(latBandTable) - 1
	}
	return latBandTable[idx], nil
}

// columnOffset returns the starting index into ColumnLetters for a zone set.
// Sets 1 and 4 start at A, 2 and 5 at J, 3 and 6 at S.
func columnOffset(set int) int {
	return ((set - 1) % 3) * 8
}

// rowOffset returns the row-letter shift for a zone set: even sets are
// shifted five letters (starting at F).
func rowOffset(set int) int {
	if set%2 == 0 {
		return 5
	}
	return 0
}
