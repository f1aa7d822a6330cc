package flightapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/config"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&config.UpstreamConfig{
		BaseURL: srv.URL,
		Host:    "sky-scrapper.test",
		APIKey:  "secret",
		Timeout: time.Second,
	})
}

func TestClient_SearchAirports(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/searchAirport", r.URL.Path)
		assert.Equal(t, "london", r.URL.Query().Get("query"))
		assert.Equal(t, "secret", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, "sky-scrapper.test", r.Header.Get("x-rapidapi-host"))

		_, _ = w.Write([]byte(`{"status":true,"data":[
			{"skyId":"LHR","entityId":"95565050","presentation":{"title":"London Heathrow","subtitle":"United Kingdom"}},
			{"skyId":"LGW","entityId":"95565051"},
			{"entityId":"1"}
		]}`))
	})

	airports, err := client.SearchAirports(context.Background(), "london")
	require.NoError(t, err)
	require.Len(t, airports, 2)
	assert.Equal(t, domain.Airport{SkyID: "LHR", EntityID: "95565050", Name: "London Heathrow", Country: "United Kingdom"}, airports[0])
	assert.Equal(t, "Unknown", airports[1].Name)
}

func TestClient_SearchFlights(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/searchFlights", r.URL.Path)
		assert.Equal(t, "LHR", q.Get("originSkyId"))
		assert.Equal(t, "JFK", q.Get("destinationSkyId"))
		assert.Equal(t, "2024-02-20", q.Get("date"))

		_, _ = w.Write([]byte(`{"data":{"itineraries":[
			{"id":"it-1","price":{"raw":400.5},"legs":[{
				"origin":{"id":"LHR","entityId":"95565050"},
				"destination":{"id":"JFK","entityId":"95565058"},
				"durationInMinutes":475,"stopCount":0,
				"departure":"2024-02-20T12:35:00","arrival":"2024-02-20T15:50:00",
				"carriers":{"marketing":[{"name":"British Airways"}]},
				"segments":[{"flightNumber":"177"}]}]},
			{"id":"it-2","legs":[{"origin":{"id":"LHR"},"destination":{"id":"JFK"}},{"origin":{"id":"JFK"}}]},
			{"id":"it-3","legs":[]}
		]}}`))
	})

	date := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	itineraries, err := client.SearchFlights(context.Background(),
		domain.Airport{SkyID: "LHR", EntityID: "95565050"},
		domain.Airport{SkyID: "JFK", EntityID: "95565058"},
		&date,
	)
	require.NoError(t, err)
	require.Len(t, itineraries, 2)

	first := itineraries[0]
	assert.Equal(t, 1, first.Legs)
	assert.Equal(t, "it-1", first.Flight.ExternalID)
	assert.Equal(t, 400.5, first.Flight.Price)
	assert.Equal(t, "177", first.Flight.FlightNumber)
	assert.Equal(t, []string{"British Airways"}, first.Flight.Carriers)
	assert.Equal(t, time.Date(2024, 2, 20, 12, 35, 0, 0, time.UTC), first.Flight.Departure)
	assert.Empty(t, first.Flight.MissingFields)

	second := itineraries[1]
	assert.Equal(t, 2, second.Legs)
	assert.Equal(t, "Unknown", second.Flight.FlightNumber)
	assert.Contains(t, second.Flight.MissingFields, "price")
	assert.Contains(t, second.Flight.MissingFields, "departure")
	assert.Contains(t, second.Flight.MissingFields, "stops")
}

func TestClient_UnexpectedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.SearchAirports(context.Background(), "paris")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}
