// Package earth911 is a read-only client for the Earth911 search API:
// material lookup, ZIP geocoding, drop-off location search, and
// per-location details. Responses are memoized for the lifetime of the
// process, keyed by request parameters.
//
// Absence ("no such material", "unknown ZIP") is reported through a
// found flag, never as an error. Errors are reserved for transport and
// HTTP failures.
package earth911

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"sync"
	"time"
)

const (
	// Search knobs fixed by the product: up to 5 locations within 20 miles.
	maxDistance = 20
	maxResults  = 5
)

var zipPattern = regexp.MustCompile(`^[0-9]{5}$`)

// ValidZIP reports whether zip is exactly five ASCII digits.
func ValidZIP(zip string) bool {
	return zipPattern.MatchString(zip)
}

// Coordinates is a resolved postal-code centroid.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is one drop-off site from a location search.
type Location struct {
	LocationID  string  `json:"location_id"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// LocationDetail is the full record for a single drop-off site.
type LocationDetail struct {
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Hours       string `json:"hours"`
	URL         string `json:"url"`
}

// Client calls the Earth911 search API.
type Client struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string]any
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: make(map[string]any),
	}
}

// MaterialID resolves a free-text item query to an Earth911 material
// ID. found is false when the API knows no such material; the caller
// should steer the user to curbside pickup in that case.
func (c *Client) MaterialID(ctx context.Context, query string) (id int64, found bool, err error) {
	type result struct {
		ID    int64
		Found bool
	}
	key := "material\x00" + query
	if cached, ok := c.cached(key); ok {
		r := cached.(result)
		return r.ID, r.Found, nil
	}

	var resp struct {
		Result []struct {
			MaterialID int64 `json:"material_id"`
		} `json:"result"`
	}
	if err := c.get(ctx, "earth911.searchMaterials", url.Values{"query": {query}}, &resp); err != nil {
		return 0, false, err
	}

	r := result{}
	if len(resp.Result) > 0 && resp.Result[0].MaterialID != 0 {
		r = result{ID: resp.Result[0].MaterialID, Found: true}
	}
	c.store(key, r)
	return r.ID, r.Found, nil
}

// PostalCoordinates resolves a 5-digit US ZIP code to coordinates.
// Malformed ZIPs are rejected locally; no request is made for them.
// found is false for well-formed but unknown ZIPs.
func (c *Client) PostalCoordinates(ctx context.Context, zip string) (coords Coordinates, found bool, err error) {
	if !ValidZIP(zip) {
		return Coordinates{}, false, fmt.Errorf("invalid ZIP code %q: must be exactly 5 digits", zip)
	}

	type result struct {
		Coords Coordinates
		Found  bool
	}
	key := "postal\x00" + zip
	if cached, ok := c.cached(key); ok {
		r := cached.(result)
		return r.Coords, r.Found, nil
	}

	var resp struct {
		Result *struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		} `json:"result"`
	}
	params := url.Values{"country": {"US"}, "postal_code": {zip}}
	if err := c.get(ctx, "earth911.getPostalData", params, &resp); err != nil {
		return Coordinates{}, false, err
	}

	r := result{}
	if resp.Result != nil && resp.Result.Latitude != nil && resp.Result.Longitude != nil {
		r = result{
			Coords: Coordinates{Latitude: *resp.Result.Latitude, Longitude: *resp.Result.Longitude},
			Found:  true,
		}
	}
	c.store(key, r)
	return r.Coords, r.Found, nil
}

// SearchLocations finds drop-off locations accepting the material near
// the given coordinates. An empty slice is a valid outcome, not an
// error.
func (c *Client) SearchLocations(ctx context.Context, coords Coordinates, materialID int64) ([]Location, error) {
	key := fmt.Sprintf("locations\x00%f\x00%f\x00%d", coords.Latitude, coords.Longitude, materialID)
	if cached, ok := c.cached(key); ok {
		return cached.([]Location), nil
	}

	var resp struct {
		Result []Location `json:"result"`
	}
	params := url.Values{
		"latitude":     {strconv.FormatFloat(coords.Latitude, 'f', -1, 64)},
		"longitude":    {strconv.FormatFloat(coords.Longitude, 'f', -1, 64)},
		"material_id":  {strconv.FormatInt(materialID, 10)},
		"max_distance": {strconv.Itoa(maxDistance)},
		"max_results":  {strconv.Itoa(maxResults)},
	}
	if err := c.get(ctx, "earth911.searchLocations", params, &resp); err != nil {
		return nil, err
	}

	locations := resp.Result
	if locations == nil {
		locations = []Location{}
	}
	c.store(key, locations)
	return locations, nil
}

// LocationDetails fetches the full record for one location ID.
func (c *Client) LocationDetails(ctx context.Context, locationID string) (LocationDetail, bool, error) {
	type result struct {
		Detail LocationDetail
		Found  bool
	}
	key := "details\x00" + locationID
	if cached, ok := c.cached(key); ok {
		r := cached.(result)
		return r.Detail, r.Found, nil
	}

	var resp struct {
		Result map[string]LocationDetail `json:"result"`
	}
	if err := c.get(ctx, "earth911.getLocationDetails", url.Values{"location_id": {locationID}}, &resp); err != nil {
		return LocationDetail{}, false, err
	}

	r := result{}
	if detail, ok := resp.Result[locationID]; ok {
		r = result{Detail: detail, Found: true}
	}
	c.store(key, r)
	return r.Detail, r.Found, nil
}

func (c *Client) get(ctx context.Context, method string, params url.Values, out any) error {
	params.Set("api_key", c.APIKey)
	endpoint := c.BaseURL + "/" + method + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("earth911 %s: %w", method, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("earth911 %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("earth911 %s: status %d", method, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("earth911 %s: decoding response: %w", method, err)
	}
	return nil
}

// Absence results are cached alongside hits; transport failures never are.
func (c *Client) cached(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache[key]
	return v, ok
}

func (c *Client) store(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = value
}
