package ingest

// ScopedID prefixes a raw feed identifier with its region code so that
// identifiers from different regions never collide.
func ScopedID(regionCode, rawID string) string {
	return regionCode + ":" + rawID
}
