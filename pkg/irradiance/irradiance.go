// Package irradiance resolves a site's solar resource from remote data:
// Nominatim for geocoding and the NASA POWER daily time series for measured
// GHI.
package irradiance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/levenlabs/go-lflag"

	"github.com/juasmart/juasmart/pkg/common"
	"github.com/juasmart/juasmart/pkg/types"
)

// ErrGeocode signals that an address could not be resolved to coordinates.
// Distinguished from ErrRemoteService so callers can tell a bad address from
// a service outage.
var ErrGeocode = errors.New("address not found")

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	defaultPowerURL     = "https://power.larc.nasa.gov/api/temporal/daily/point"

	// ghiParameter is the all-sky surface shortwave downward irradiance,
	// reported in kWh/m2/day.
	ghiParameter = "ALLSKY_SFC_SW_DWN"

	// fillValue marks missing days in NASA POWER series.
	fillValue = -999
)

// Summary is the resolved solar resource for a site.
type Summary struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// AvgGHIKWHM2Day is the mean daily GHI over the sampled period.
	AvgGHIKWHM2Day float64 `json:"avgGHIKWHM2Day"`
	// Days is how many measured days went into the mean.
	Days  int    `json:"days"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Client fetches irradiance data for arbitrary addresses.
type Client struct {
	hc           *http.Client
	nominatimURL string
	powerURL     string
	now          func() time.Time
}

// Configured sets up the irradiance client based on flags.
func Configured() *Client {
	nominatimURL := lflag.String("nominatim-url", defaultNominatimURL, "Nominatim geocoding endpoint")
	powerURL := lflag.String("nasa-power-url", defaultPowerURL, "NASA POWER daily point endpoint")

	c := &Client{
		hc:  common.HTTPClient(30 * time.Second),
		now: time.Now,
	}
	lflag.Do(func() {
		c.nominatimURL = *nominatimURL
		c.powerURL = *powerURL
	})
	return c
}

// NewClient returns a client against explicit endpoints, mainly for tests.
func NewClient(hc *http.Client, nominatimURL, powerURL string) *Client {
	return &Client{hc: hc, nominatimURL: nominatimURL, powerURL: powerURL, now: time.Now}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode resolves an address to coordinates. Returns ErrGeocode when the
// address does not match anything.
func (c *Client) Geocode(ctx context.Context, address string) (lat, lon float64, err error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nominatimURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: geocoding: %v", types.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, 0, fmt.Errorf("%w: geocoding returned status %d: %s",
			types.ErrRemoteService, resp.StatusCode, body)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("%w: geocoding: %v", types.ErrResponseParse, err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrGeocode, address)
	}

	lat, err = strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: geocoding: bad latitude %q", types.ErrResponseParse, results[0].Lat)
	}
	lon, err = strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: geocoding: bad longitude %q", types.ErrResponseParse, results[0].Lon)
	}
	return lat, lon, nil
}

type powerResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// AnnualGHI fetches the daily GHI series for the 12 months ending with the
// last complete month and returns the mean over measured days. Fill values
// for missing days are skipped.
func (c *Client) AnnualGHI(ctx context.Context, lat, lon float64) (Summary, error) {
	end := c.now().UTC()
	end = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	start := end.AddDate(-1, 0, 0)

	params := url.Values{}
	params.Set("parameters", ghiParameter)
	params.Set("community", "RE")
	params.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	params.Set("start", start.Format("20060102"))
	params.Set("end", end.Format("20060102"))
	params.Set("format", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.powerURL+"?"+params.Encode(), nil)
	if err != nil {
		return Summary{}, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: irradiance fetch: %v", types.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Summary{}, fmt.Errorf("%w: irradiance fetch returned status %d: %s",
			types.ErrRemoteService, resp.StatusCode, body)
	}

	var power powerResponse
	if err := json.NewDecoder(resp.Body).Decode(&power); err != nil {
		return Summary{}, fmt.Errorf("%w: irradiance fetch: %v", types.ErrResponseParse, err)
	}

	series, ok := power.Properties.Parameter[ghiParameter]
	if !ok || len(series) == 0 {
		return Summary{}, fmt.Errorf("%w: no %s data in response", types.ErrResponseParse, ghiParameter)
	}

	var sum float64
	var days int
	for _, v := range series {
		if v <= fillValue {
			continue
		}
		sum += v
		days++
	}
	if days == 0 {
		return Summary{}, fmt.Errorf("%w: %s series contains only fill values", types.ErrResponseParse, ghiParameter)
	}

	return Summary{
		Latitude:       lat,
		Longitude:      lon,
		AvgGHIKWHM2Day: sum / float64(days),
		Days:           days,
		Start:          start.Format("2006-01-02"),
		End:            end.Format("2006-01-02"),
	}, nil
}

// ForAddress geocodes an address and fetches its annual GHI in one call.
func (c *Client) ForAddress(ctx context.Context, address string) (Summary, error) {
	lat, lon, err := c.Geocode(ctx, address)
	if err != nil {
		return Summary{}, err
	}
	return c.AnnualGHI(ctx, lat, lon)
}
