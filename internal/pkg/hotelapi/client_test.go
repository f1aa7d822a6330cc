package hotelapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(&config.UpstreamConfig{
		BaseURL: srv.URL,
		Host:    "booking.test",
		APIKey:  "secret",
		Timeout: time.Second,
	})
}

func TestClient_SearchDestinations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/searchDestination", r.URL.Path)
		assert.Equal(t, "Paris", r.URL.Query().Get("query"))
		assert.Equal(t, "booking.test", r.Header.Get("x-rapidapi-host"))

		_, _ = w.Write([]byte(`{"data":[
			{"dest_id":"-1456928","label":"Paris, Ile de France, France","city_name":"Paris","country":"France","latitude":48.85,"longitude":2.35},
			{"dest_id":"x","label":"No coordinates"}
		]}`))
	})

	destinations, err := client.SearchDestinations(context.Background(), "Paris")
	require.NoError(t, err)
	require.Len(t, destinations, 1)
	assert.Equal(t, "France", destinations[0].Country)
	assert.Equal(t, 48.85, destinations[0].Latitude)
}

func TestClient_SearchHotels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/searchHotelsByCoordinates", r.URL.Path)
		assert.Equal(t, "48.85", q.Get("latitude"))
		assert.Equal(t, "2024-05-01", q.Get("arrival_date"))
		assert.Equal(t, "2024-05-04", q.Get("departure_date"))

		_, _ = w.Write([]byte(`{"data":{"result":[
			{"hotel_id":11,"hotel_name":"Hotel Lutece","address":"1 Rue X","city":"Paris","country_trans":"France",
			 "latitude":48.8,"longitude":2.3,"review_score":8.7,"min_total_price":350.25,"currency_code":"EUR"},
			{"hotel_id":12,"city":"Paris"},
			{"hotel_name":"no id"}
		]}}`))
	})

	hotels, err := client.SearchHotels(context.Background(), 48.85, 2.35,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, hotels, 2)

	assert.Equal(t, "11", hotels[0].ExternalID)
	assert.Equal(t, 350.25, hotels[0].Price)
	assert.Empty(t, hotels[0].MissingFields)

	assert.Equal(t, "Unknown", hotels[1].Name)
	assert.Equal(t, "", hotels[1].Address)
	assert.ElementsMatch(t,
		[]string{"name", "address", "country", "coordinates", "review_score", "price", "currency"},
		hotels[1].MissingFields,
	)
}

func TestClient_RoomList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getRoomList", r.URL.Path)
		assert.Equal(t, "11", r.URL.Query().Get("hotel_id"))

		_, _ = w.Write([]byte(`{"data":{"block":[
			{"block_id":"11_a","room_name":"Double","max_occupancy":2,"mealplan":"Breakfast included","refundable":true,
			 "product_price_breakdown":{"gross_amount":{"value":120.5,"currency":"EUR"}}},
			{"room_id":42},
			{"room_name":"no id"}
		]}}`))
	})

	rooms, err := client.RoomList(context.Background(), "11",
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	assert.Equal(t, "11_a", rooms[0].ExternalID)
	assert.True(t, rooms[0].Refundable)
	assert.Equal(t, "EUR", rooms[0].Currency)

	assert.Equal(t, "42", rooms[1].ExternalID)
	assert.Equal(t, "Unknown", rooms[1].MealPlan)
	assert.Contains(t, rooms[1].MissingFields, "price")
}

func TestClient_UnexpectedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.SearchDestinations(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}
