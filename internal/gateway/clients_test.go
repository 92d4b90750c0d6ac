package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/urbansense-api/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClimateClientFetch(t *testing.T) {
	t.Run("averages excluding sentinel missing values", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"properties": {"parameter": {
					"ALLSKY_SFC_SW_DWN": {"20240101": 5.0, "20240102": 6.0, "20240103": -999},
					"T2M": {"20240101": 28.0, "20240102": -999, "20240103": 30.0}
				}}
			}`))
		}))
		defer srv.Close()

		c := NewClimateClient(srv.URL, time.Second, discardLogger())
		obs, err := c.Fetch(context.Background(), 12.97, 77.59)
		require.NoError(t, err)
		assert.InDelta(t, 5.5, obs.AvgIrradiance, 1e-9)
		assert.InDelta(t, 29.0, obs.AvgTemperature, 1e-9)
	})

	t.Run("all-sentinel series is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"properties":{"parameter":{"ALLSKY_SFC_SW_DWN":{"20240101":-999},"T2M":{"20240101":-999}}}}`))
		}))
		defer srv.Close()

		c := NewClimateClient(srv.URL, time.Second, discardLogger())
		_, err := c.Fetch(context.Background(), 12.97, 77.59)
		assert.Error(t, err)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := NewClimateClient(srv.URL, time.Second, discardLogger())
		_, err := c.Fetch(context.Background(), 12.97, 77.59)
		assert.Error(t, err)
	})

	t.Run("slow provider times out within the configured bound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := NewClimateClient(srv.URL, 30*time.Millisecond, discardLogger())
		start := time.Now()
		_, err := c.Fetch(context.Background(), 12.97, 77.59)
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 150*time.Millisecond)
	})
}

func TestPrecipClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{"precipitation_sum":[0, 2, 4, 6]}}`))
	}))
	defer srv.Close()

	c := NewPrecipClient(srv.URL, time.Second, discardLogger())
	avg, err := c.Fetch(context.Background(), 12.97, 77.59)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, avg, 1e-9)
}

func TestPrecipClientEmptySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{"precipitation_sum":[]}}`))
	}))
	defer srv.Close()

	c := NewPrecipClient(srv.URL, time.Second, discardLogger())
	_, err := c.Fetch(context.Background(), 12.97, 77.59)
	assert.Error(t, err)
}

func TestAirQualityClientFetchStations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[
			{"id": 7, "name": "Central", "coordinates": {"latitude": 12.98, "longitude": 77.60},
			 "measurements": [{"parameter": "pm25", "value": 41.5}, {"parameter": "no2", "value": 12}]},
			{"id": 8, "name": "NoPM", "coordinates": {"latitude": 12.99, "longitude": 77.61},
			 "measurements": [{"parameter": "o3", "value": 30}]}
		]}`))
	}))
	defer srv.Close()

	c := NewAirQualityClient(srv.URL, time.Second, discardLogger())
	stations, err := c.FetchStations(context.Background(), testBounds)
	require.NoError(t, err)

	// Stations without a PM2.5 reading are rejected.
	require.Len(t, stations, 1)
	assert.Equal(t, "7", stations[0].ID)
	assert.Equal(t, "station", stations[0].SourceType)
	assert.InDelta(t, 41.5, stations[0].PM25, 1e-9)
}

func TestAirQualityClientFetchModelEstimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hourly":{"pm2_5":[10, 20, 30]}}`))
	}))
	defer srv.Close()

	c := NewAirQualityClient(srv.URL, time.Second, discardLogger())
	pm25, err := c.FetchModelEstimate(context.Background(), types.GeoPoint{Lat: 12.97, Lng: 77.59})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, pm25, 1e-9)
}

func TestBuildingClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"elements":[
			{"type": "way", "id": 101, "geometry": [
				{"lat": 12.9700, "lon": 77.5900},
				{"lat": 12.9700, "lon": 77.5910},
				{"lat": 12.9710, "lon": 77.5910},
				{"lat": 12.9710, "lon": 77.5900}
			]},
			{"type": "way", "id": 102, "geometry": [
				{"lat": 12.9700, "lon": 77.5900},
				{"lat": 12.9701, "lon": 77.5901}
			]},
			{"type": "node", "id": 103}
		]}`))
	}))
	defer srv.Close()

	c := NewBuildingClient(srv.URL, time.Second, discardLogger())
	buildings, err := c.Fetch(context.Background(), testBounds)
	require.NoError(t, err)

	// Only the closed way with >=3 vertices survives, with derived fields set.
	require.Len(t, buildings, 1)
	b := buildings[0]
	assert.Equal(t, "101", b.ID)
	assert.Greater(t, b.AreaM2, 0.0)
	assert.InDelta(t, 12.9705, b.Centroid.Lat, 1e-4)
	assert.InDelta(t, 77.5905, b.Centroid.Lng, 1e-4)
}
