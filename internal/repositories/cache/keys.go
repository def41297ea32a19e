package cache

import "fmt"

// Blacklist categories. The destination key keeps the name used by the existing
// operator tooling.
const (
	BlacklistOriginatorKey  = "blacklist:nameOrig"
	BlacklistDestinationKey = "blacklist:nameDes"
)

// BlacklistCategories maps the admin-facing category name to its set key.
var BlacklistCategories = map[string]string{
	"originator":  BlacklistOriginatorKey,
	"destination": BlacklistDestinationKey,
}

// RateCounterKey builds the composite sliding-window key for (type, originator, destination).
func RateCounterKey(txType, nameOrig, nameDest string) string {
	return fmt.Sprintf("%s:txnCount:%s:%s", txType, nameOrig, nameDest)
}
