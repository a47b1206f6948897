package takealot

import (
	"encoding/json"
	"testing"
)

func TestUnwrapEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "Bare Array",
			body: `[{"tsin_id": 1}, {"tsin_id": 2}]`,
			want: 2,
		},
		{
			name: "Offers Key",
			body: `{"offers": [{"tsin_id": 1}], "total": 1}`,
			want: 1,
		},
		{
			name: "Results Key",
			body: `{"results": [{"order_id": "a"}, {"order_id": "b"}, {"order_id": "c"}]}`,
			want: 3,
		},
		{
			name: "Data Key",
			body: `{"data": [{"sale_id": 9}]}`,
			want: 1,
		},
		{
			name: "Sales Key",
			body: `{"sales": [{"order_id": "x"}], "page_summary": {}}`,
			want: 1,
		},
		{
			name: "Empty Page",
			body: `{"offers": []}`,
			want: 0,
		},
		{
			name: "Unknown Shape",
			body: `{"message": "no content"}`,
			want: 0,
		},
		{
			name: "Non Object Items Skipped",
			body: `[1, {"tsin_id": 5}, "x"]`,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body interface{}
			if err := json.Unmarshal([]byte(tt.body), &body); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}

			got := unwrapEnvelope(body)
			if len(got) != tt.want {
				t.Errorf("unwrapEnvelope() returned %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestAuthHeader(t *testing.T) {
	if got := authHeader(Credentials{APIKey: "k1", Scheme: AuthSchemeKey}); got != "Key k1" {
		t.Errorf("key scheme header = %q", got)
	}
	if got := authHeader(Credentials{APIKey: "k2", Scheme: AuthSchemeBearer}); got != "Bearer k2" {
		t.Errorf("bearer scheme header = %q", got)
	}
	// Unset scheme falls back to the documented Key form
	if got := authHeader(Credentials{APIKey: "k3"}); got != "Key k3" {
		t.Errorf("default scheme header = %q", got)
	}
}
