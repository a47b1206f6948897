package marketdata

import (
	"strconv"

	"sellersync/internal/common/models"

	"github.com/google/uuid"
)

// Field preference per data type for the natural dedup key. Offers key on
// TSIN, sales on the order id, with the fallbacks the seller API has been
// seen to use.
var keyFields = map[models.DataType][]string{
	models.DataTypeProducts: {"tsin_id", "tsin", "offer_id", "sku"},
	models.DataTypeSales:    {"order_id", "sale_id", "order_item_id"},
}

// NaturalKey extracts the dedup key from a raw record, or "" when none of
// the candidate fields is present. Keyless records are stored but never
// considered duplicates of anything.
func NaturalKey(dataType models.DataType, record map[string]interface{}) string {
	for _, field := range keyFields[dataType] {
		if key := stringValue(record[field]); key != "" {
			return key
		}
	}
	return ""
}

// DocID builds the document id for a record: tenant-prefixed natural key so
// re-fetching the same page overwrites instead of duplicating. Records
// without a key get a random suffix; those can pile up until a cleanup pass.
func DocID(integrationID string, key string) string {
	if key == "" {
		return integrationID + "_nokey_" + uuid.NewString()
	}
	return integrationID + "_" + key
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}
