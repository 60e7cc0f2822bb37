package irradiance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juasmart/juasmart/pkg/types"
)

func TestGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Nairobi, Kenya", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`[{"lat": "-1.2921", "lon": "36.8219"}]`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL, "")
	lat, lon, err := c.Geocode(context.Background(), "Nairobi, Kenya")
	require.NoError(t, err)
	assert.InDelta(t, -1.2921, lat, 0.0001)
	assert.InDelta(t, 36.8219, lon, 0.0001)
}

func TestGeocodeNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL, "")
	_, _, err := c.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrGeocode)
	assert.NotErrorIs(t, err, types.ErrRemoteService)
}

func TestGeocodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL, "")
	_, _, err := c.Geocode(context.Background(), "Nairobi")
	assert.ErrorIs(t, err, types.ErrRemoteService)
}

func TestAnnualGHI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "ALLSKY_SFC_SW_DWN", q.Get("parameters"))
		assert.Equal(t, "RE", q.Get("community"))
		assert.Equal(t, "20240531", q.Get("start"))
		assert.Equal(t, "20250531", q.Get("end"))

		// one fill value that must be excluded from the mean
		w.Write([]byte(`{"properties": {"parameter": {"ALLSKY_SFC_SW_DWN": {
			"20240601": 5.0,
			"20240602": 6.0,
			"20240603": -999.0,
			"20240604": 5.5
		}}}}`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), "", server.URL)
	c.now = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }

	sum, err := c.AnnualGHI(context.Background(), -1.29, 36.82)
	require.NoError(t, err)
	assert.InDelta(t, (5.0+6.0+5.5)/3, sum.AvgGHIKWHM2Day, 0.0001)
	assert.Equal(t, 3, sum.Days)
	assert.Equal(t, "2024-05-31", sum.Start)
	assert.Equal(t, "2025-05-31", sum.End)
}

func TestAnnualGHIAllFillValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"properties": {"parameter": {"ALLSKY_SFC_SW_DWN": {"20240601": -999.0}}}}`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), "", server.URL)
	_, err := c.AnnualGHI(context.Background(), 0, 0)
	assert.ErrorIs(t, err, types.ErrResponseParse)
}

func TestAnnualGHIMissingParameter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"properties": {"parameter": {}}}`))
	}))
	defer server.Close()

	c := NewClient(server.Client(), "", server.URL)
	_, err := c.AnnualGHI(context.Background(), 0, 0)
	assert.ErrorIs(t, err, types.ErrResponseParse)
}

func TestForAddress(t *testing.T) {
	power := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"properties": {"parameter": {"ALLSKY_SFC_SW_DWN": {"20240601": 5.2}}}}`))
	}))
	defer power.Close()
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat": "-4.05", "lon": "39.67"}]`))
	}))
	defer geo.Close()

	c := NewClient(http.DefaultClient, geo.URL, power.URL)
	sum, err := c.ForAddress(context.Background(), "Mombasa")
	require.NoError(t, err)
	assert.InDelta(t, 5.2, sum.AvgGHIKWHM2Day, 0.0001)
	assert.InDelta(t, -4.05, sum.Latitude, 0.0001)
}
