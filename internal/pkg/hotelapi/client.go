// Package hotelapi is a client for the Booking.com15 hotel search API.
package hotelapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/config"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
)

const (
	DateLayout     = "2006-01-02"
	defaultTimeout = 15 * time.Second
	unknown        = "Unknown"
)

var ErrUnexpectedStatus = errors.New("unexpected upstream status")

type Destination struct {
	ID        string
	Label     string
	City      string
	Country   string
	Latitude  float64
	Longitude float64
}

type Client struct {
	baseURL string
	host    string
	apiKey  string
	http    *http.Client
}

func NewClient(conf *config.UpstreamConfig) *Client {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: conf.BaseURL,
		host:    conf.Host,
		apiKey:  conf.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// SearchDestinations drops candidates without coordinates.
func (c *Client) SearchDestinations(ctx context.Context, query string) ([]Destination, error) {
	var resp struct {
		Data []struct {
			DestID    *string  `json:"dest_id"`
			Label     *string  `json:"label"`
			CityName  *string  `json:"city_name"`
			Country   *string  `json:"country"`
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		} `json:"data"`
	}

	params := url.Values{}
	params.Set("query", query)
	if err := c.get(ctx, "/searchDestination", params, &resp); err != nil {
		return nil, err
	}

	destinations := make([]Destination, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.Latitude == nil || d.Longitude == nil {
			continue
		}

		destinations = append(destinations, Destination{
			ID:        deref(d.DestID, ""),
			Label:     deref(d.Label, ""),
			City:      deref(d.CityName, ""),
			Country:   deref(d.Country, ""),
			Latitude:  *d.Latitude,
			Longitude: *d.Longitude,
		})
	}

	return destinations, nil
}

func (c *Client) SearchHotels(ctx context.Context, latitude, longitude float64, arrival, departure time.Time) ([]domain.Hotel, error) {
	var resp struct {
		Data struct {
			Result []struct {
				HotelID       *int64   `json:"hotel_id"`
				HotelName     *string  `json:"hotel_name"`
				Address       *string  `json:"address"`
				City          *string  `json:"city"`
				Country       *string  `json:"country_trans"`
				Latitude      *float64 `json:"latitude"`
				Longitude     *float64 `json:"longitude"`
				ReviewScore   *float64 `json:"review_score"`
				MinTotalPrice *float64 `json:"min_total_price"`
				CurrencyCode  *string  `json:"currency_code"`
			} `json:"result"`
		} `json:"data"`
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("arrival_date", arrival.Format(DateLayout))
	params.Set("departure_date", departure.Format(DateLayout))
	if err := c.get(ctx, "/searchHotelsByCoordinates", params, &resp); err != nil {
		return nil, err
	}

	hotels := make([]domain.Hotel, 0, len(resp.Data.Result))
	for _, r := range resp.Data.Result {
		if r.HotelID == nil {
			continue
		}

		var missing []string
		hotel := domain.Hotel{
			ExternalID: strconv.FormatInt(*r.HotelID, 10),
			Name:       unknown,
		}

		if r.HotelName != nil {
			hotel.Name = *r.HotelName
		} else {
			missing = append(missing, "name")
		}
		if r.Address != nil && *r.Address != "" {
			hotel.Address = *r.Address
		} else {
			missing = append(missing, "address")
		}
		if r.City != nil {
			hotel.City = *r.City
		} else {
			missing = append(missing, "city")
		}
		if r.Country != nil {
			hotel.Country = *r.Country
		} else {
			missing = append(missing, "country")
		}
		if r.Latitude != nil && r.Longitude != nil {
			hotel.Latitude = *r.Latitude
			hotel.Longitude = *r.Longitude
		} else {
			missing = append(missing, "coordinates")
		}
		if r.ReviewScore != nil {
			hotel.ReviewScore = *r.ReviewScore
		} else {
			missing = append(missing, "review_score")
		}
		if r.MinTotalPrice != nil {
			hotel.Price = *r.MinTotalPrice
		} else {
			missing = append(missing, "price")
		}
		if r.CurrencyCode != nil {
			hotel.Currency = *r.CurrencyCode
		} else {
			missing = append(missing, "currency")
		}

		hotel.MissingFields = missing
		hotels = append(hotels, hotel)
	}

	return hotels, nil
}

func (c *Client) RoomList(ctx context.Context, hotelID string, arrival, departure time.Time) ([]domain.HotelRoom, error) {
	var resp struct {
		Data struct {
			Block []struct {
				BlockID      *string `json:"block_id"`
				RoomID       *int64  `json:"room_id"`
				RoomName     *string `json:"room_name"`
				MaxOccupancy *int    `json:"max_occupancy"`
				MealPlan     *string `json:"mealplan"`
				Refundable   *bool   `json:"refundable"`
				PriceInfo    *struct {
					GrossAmount *struct {
						Value    *float64 `json:"value"`
						Currency *string  `json:"currency"`
					} `json:"gross_amount"`
				} `json:"product_price_breakdown"`
			} `json:"block"`
		} `json:"data"`
	}

	params := url.Values{}
	params.Set("hotel_id", hotelID)
	params.Set("arrival_date", arrival.Format(DateLayout))
	params.Set("departure_date", departure.Format(DateLayout))
	if err := c.get(ctx, "/getRoomList", params, &resp); err != nil {
		return nil, err
	}

	rooms := make([]domain.HotelRoom, 0, len(resp.Data.Block))
	for _, b := range resp.Data.Block {
		var externalID string
		switch {
		case b.BlockID != nil:
			externalID = *b.BlockID
		case b.RoomID != nil:
			externalID = strconv.FormatInt(*b.RoomID, 10)
		default:
			continue
		}

		var missing []string
		room := domain.HotelRoom{ExternalID: externalID, Name: unknown, MealPlan: unknown}

		if b.RoomName != nil {
			room.Name = *b.RoomName
		} else {
			missing = append(missing, "name")
		}
		if b.MaxOccupancy != nil {
			room.MaxOccupancy = *b.MaxOccupancy
		} else {
			missing = append(missing, "max_occupancy")
		}
		if b.MealPlan != nil {
			room.MealPlan = *b.MealPlan
		} else {
			missing = append(missing, "meal_plan")
		}
		if b.Refundable != nil {
			room.Refundable = *b.Refundable
		} else {
			missing = append(missing, "refundable")
		}
		if b.PriceInfo != nil && b.PriceInfo.GrossAmount != nil && b.PriceInfo.GrossAmount.Value != nil {
			room.Price = *b.PriceInfo.GrossAmount.Value
			room.Currency = deref(b.PriceInfo.GrossAmount.Currency, "")
		} else {
			missing = append(missing, "price")
		}

		room.MissingFields = missing
		rooms = append(rooms, room)
	}

	return rooms, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.host)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("c.http.Do %s -> %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json.Decode %s -> %w", path, err)
	}

	return nil
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}

	return *s
}
