package takealot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sellersync/internal/common/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *ClientImpl {
	return &ClientImpl{
		http:       resty.New().SetBaseURL(baseURL).SetTimeout(5 * time.Second),
		logger:     zap.NewNop(),
		retryAfter: 10 * time.Millisecond,
	}
}

func TestFetchPageRetriesOn429(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"offers": [{"tsin_id": 1}, {"tsin_id": 2}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	records, err := client.FetchPage(context.Background(), Credentials{APIKey: "k"}, models.DataTypeProducts, 3, 100, nil)
	if err != nil {
		t.Fatalf("FetchPage() error = %v, want retried success", err)
	}
	if calls != 2 {
		t.Errorf("server saw %d calls, want 2 (original + retry)", calls)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestFetchPageSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	if _, err := client.FetchPage(context.Background(), Credentials{APIKey: "k"}, models.DataTypeSales, 1, 100, nil); err == nil {
		t.Fatal("FetchPage() = nil error on 502, want error")
	}
}

func TestFetchPageSendsPagingAndAuth(t *testing.T) {
	var gotAuth, gotLimit, gotOffset string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotLimit = r.URL.Query().Get("limit")
		gotOffset = r.URL.Query().Get("offset")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.FetchPage(context.Background(), Credentials{APIKey: "secret", Scheme: AuthSchemeBearer}, models.DataTypeProducts, 4, 50, map[string]string{"filters": "start_date:2024-01-01"})
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", gotAuth)
	}
	if gotLimit != "50" {
		t.Errorf("limit = %q, want 50", gotLimit)
	}
	// page 4 at 50/page starts at offset 150
	if gotOffset != "150" {
		t.Errorf("offset = %q, want 150", gotOffset)
	}
}
