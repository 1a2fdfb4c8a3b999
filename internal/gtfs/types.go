package gtfs

// Required table file names. A region directory missing any of them
// contributes nothing to the network.
const (
	StopsFile     = "stops.txt"
	RoutesFile    = "routes.txt"
	TripsFile     = "trips.txt"
	StopTimesFile = "stop_times.txt"
)

// RequiredFiles lists the tables every region directory must carry, in load order.
var RequiredFiles = []string{StopsFile, RoutesFile, TripsFile, StopTimesFile}

type Stop struct {
	StopID       string `csv:"stop_id"`
	StopName     string `csv:"stop_name"`
	StopLat      string `csv:"stop_lat"`
	StopLon      string `csv:"stop_lon"`
	StopTimezone string `csv:"stop_timezone"`
}

type Route struct {
	RouteID        string `csv:"route_id"`
	RouteShortName string `csv:"route_short_name"`
	RouteLongName  string `csv:"route_long_name"`
}

type Trip struct {
	TripID  string `csv:"trip_id"`
	RouteID string `csv:"route_id"`
}

type StopTime struct {
	TripID       string `csv:"trip_id"`
	StopID       string `csv:"stop_id"`
	StopSequence string `csv:"stop_sequence"`
}

// Table is a fully decoded CSV file plus the set of columns its header declared.
// Columns lets callers tell an absent column apart from an empty cell.
type Table[T any] struct {
	Rows    []T
	Columns map[string]bool
}

// Has reports whether the header declared the named column.
func (t *Table[T]) Has(column string) bool {
	return t.Columns[column]
}
