package marketdata

import (
	"strings"
	"testing"

	"sellersync/internal/common/models"
)

func TestNaturalKey(t *testing.T) {
	tests := []struct {
		name     string
		dataType models.DataType
		record   map[string]interface{}
		want     string
	}{
		{
			name:     "Offer TSIN Preferred",
			dataType: models.DataTypeProducts,
			record:   map[string]interface{}{"tsin_id": float64(76543), "offer_id": float64(11)},
			want:     "76543",
		},
		{
			name:     "Offer Falls Back To Offer ID",
			dataType: models.DataTypeProducts,
			record:   map[string]interface{}{"offer_id": "OF-9"},
			want:     "OF-9",
		},
		{
			name:     "Sale Order ID",
			dataType: models.DataTypeSales,
			record:   map[string]interface{}{"order_id": float64(555001), "sale_id": float64(1)},
			want:     "555001",
		},
		{
			name:     "Missing Key",
			dataType: models.DataTypeSales,
			record:   map[string]interface{}{"amount": 12.5},
			want:     "",
		},
		{
			name:     "Large Numeric ID Not Mangled",
			dataType: models.DataTypeProducts,
			record:   map[string]interface{}{"tsin_id": float64(90812345001)},
			want:     "90812345001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NaturalKey(tt.dataType, tt.record); got != tt.want {
				t.Errorf("NaturalKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocID(t *testing.T) {
	if got := DocID("abc", "76543"); got != "abc_76543" {
		t.Errorf("DocID() = %q, want abc_76543", got)
	}

	// Keyless docs get unique ids so they never overwrite each other
	one := DocID("abc", "")
	two := DocID("abc", "")
	if one == two {
		t.Errorf("keyless DocIDs collide: %q", one)
	}
	if !strings.HasPrefix(one, "abc_nokey_") {
		t.Errorf("keyless DocID = %q, want abc_nokey_ prefix", one)
	}
}
