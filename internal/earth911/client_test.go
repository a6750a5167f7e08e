package earth911

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestValidZIP(t *testing.T) {
	tests := []struct {
		zip   string
		valid bool
	}{
		{"08540", true},
		{"00000", true},
		{"1234", false},
		{"123456", false},
		{"12a45", false},
		{"12 45", false},
		{"", false},
		{"١٢٣٤٥", false}, // non-ASCII digits
	}

	for _, tt := range tests {
		if got := ValidZIP(tt.zip); got != tt.valid {
			t.Errorf("ValidZIP(%q) = %v, want %v", tt.zip, got, tt.valid)
		}
	}
}

func newTestServer(t *testing.T, requests *atomic.Int64, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		if r.URL.Query().Get("api_key") == "" {
			t.Error("request missing api_key parameter")
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key")
}

func TestMaterialIDFound(t *testing.T) {
	client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "earth911.searchMaterials") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("query"); q != "Aluminum Beverage Cans" {
			t.Errorf("unexpected query %q", q)
		}
		w.Write([]byte(`{"result":[{"material_id":12,"description":"Aluminum cans"}]}`))
	})

	id, found, err := client.MaterialID(context.Background(), "Aluminum Beverage Cans")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || id != 12 {
		t.Errorf("expected material 12 found, got id=%d found=%v", id, found)
	}
}

func TestMaterialIDNoMatchIsNotAnError(t *testing.T) {
	client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[]}`))
	})

	_, found, err := client.MaterialID(context.Background(), "unobtainium")
	if err != nil {
		t.Fatalf("no match must not be an error, got %v", err)
	}
	if found {
		t.Error("expected found=false for empty result")
	}
}

func TestMaterialIDTransportFailure(t *testing.T) {
	client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	})

	_, _, err := client.MaterialID(context.Background(), "Cardboard")
	if err == nil {
		t.Fatal("expected transport failure to surface as an error")
	}
}

func TestPostalCoordinatesRejectsBadZIPWithoutNetworkCall(t *testing.T) {
	var requests atomic.Int64
	client := newTestServer(t, &requests, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{"latitude":40.3,"longitude":-74.6}}`))
	})

	for _, zip := range []string{"1234", "123456", "12a45", ""} {
		_, _, err := client.PostalCoordinates(context.Background(), zip)
		if err == nil {
			t.Errorf("expected validation error for ZIP %q", zip)
		}
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("validation must short-circuit before the network, saw %d requests", n)
	}
}

func TestPostalCoordinatesUnknownZIP(t *testing.T) {
	client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":null}`))
	})

	_, found, err := client.PostalCoordinates(context.Background(), "00000")
	if err != nil {
		t.Fatalf("unknown ZIP must not be an error, got %v", err)
	}
	if found {
		t.Error("expected found=false for unresolvable ZIP")
	}
}

func TestPostalCoordinatesResolves(t *testing.T) {
	client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("postal_code"); got != "08540" {
			t.Errorf("unexpected postal_code %q", got)
		}
		if got := r.URL.Query().Get("country"); got != "US" {
			t.Errorf("unexpected country %q", got)
		}
		w.Write([]byte(`{"result":{"latitude":40.35,"longitude":-74.65}}`))
	})

	coords, found, err := client.PostalCoordinates(context.Background(), "08540")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected coordinates to resolve")
	}
	if coords.Latitude != 40.35 || coords.Longitude != -74.65 {
		t.Errorf("unexpected coordinates %+v", coords)
	}
}

func TestSearchLocationsEmptyIsValid(t *testing.T) {
	client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[]}`))
	})

	locations, err := client.SearchLocations(context.Background(), Coordinates{Latitude: 40, Longitude: -74}, 12)
	if err != nil {
		t.Fatalf("empty search result must not be an error, got %v", err)
	}
	if len(locations) != 0 {
		t.Errorf("expected no locations, got %d", len(locations))
	}
}

func TestSearchLocationsPassesFixedKnobs(t *testing.T) {
	client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("max_distance") != "20" || q.Get("max_results") != "5" {
			t.Errorf("unexpected search knobs: %v", q)
		}
		if q.Get("material_id") != "12" {
			t.Errorf("unexpected material_id %q", q.Get("material_id"))
		}
		w.Write([]byte(`{"result":[
			{"location_id":"abc123","description":"Town Recycling Center","latitude":40.36,"longitude":-74.61}
		]}`))
	})

	locations, err := client.SearchLocations(context.Background(), Coordinates{Latitude: 40.35, Longitude: -74.65}, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locations) != 1 || locations[0].LocationID != "abc123" {
		t.Errorf("unexpected locations %+v", locations)
	}
}

func TestLocationDetails(t *testing.T) {
	client := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("location_id"); got != "abc123" {
			t.Errorf("unexpected location_id %q", got)
		}
		w.Write([]byte(`{"result":{"abc123":{
			"description":"Town Recycling Center",
			"address":"1 Recycle Way, Princeton, NJ",
			"phone":"555-0100",
			"hours":"Mon-Fri 9-5",
			"url":"https://example.com"
		}}}`))
	})

	detail, found, err := client.LocationDetails(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected detail to be found")
	}
	if detail.Address != "1 Recycle Way, Princeton, NJ" || detail.Phone != "555-0100" {
		t.Errorf("unexpected detail %+v", detail)
	}
}

func TestResponsesAreMemoized(t *testing.T) {
	var requests atomic.Int64
	client := newTestServer(t, &requests, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[{"material_id":7}]}`))
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, _, err := client.MaterialID(ctx, "Cardboard"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("expected 1 upstream request for identical queries, saw %d", n)
	}

	// Different parameters miss the cache.
	if _, _, err := client.MaterialID(ctx, "Newspaper"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("expected distinct query to reach upstream, saw %d requests", n)
	}
}

func TestAbsenceIsMemoizedButFailuresAreNot(t *testing.T) {
	var requests atomic.Int64
	var failing atomic.Bool
	failing.Store(true)
	client := newTestServer(t, &requests, func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"result":[]}`))
	})

	ctx := context.Background()
	if _, _, err := client.MaterialID(ctx, "glitter"); err == nil {
		t.Fatal("expected failure")
	}

	// Failure was not cached: the next call goes back upstream and
	// observes the recovered API.
	failing.Store(false)
	_, found, err := client.MaterialID(ctx, "glitter")
	if err != nil {
		t.Fatalf("unexpected error after recovery: %v", err)
	}
	if found {
		t.Error("expected found=false")
	}
	if n := requests.Load(); n != 2 {
		t.Fatalf("expected 2 upstream requests, saw %d", n)
	}

	// The absence result is cached.
	if _, _, err := client.MaterialID(ctx, "glitter"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("absence result should be served from cache, saw %d requests", n)
	}
}
