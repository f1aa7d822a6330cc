// Package flightapi is a client for the Sky-Scrapper flight search API.
package flightapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/config"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
)

const (
	DateLayout     = "2006-01-02"
	legTimeLayout  = "2006-01-02T15:04:05"
	defaultTimeout = 15 * time.Second
	unknown        = "Unknown"
)

var ErrUnexpectedStatus = errors.New("unexpected upstream status")

// Itinerary is a mapped flight plus the number of legs the upstream returned for it.
type Itinerary struct {
	Flight domain.Flight
	Legs   int
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

// SearchAirports returns every autocomplete candidate for a free text query.
func (c *Client) SearchAirports(ctx context.Context, query string) ([]domain.Airport, error) {
	var resp struct {
		Data []struct {
			SkyID        *string `json:"skyId"`
			EntityID     *string `json:"entityId"`
			Presentation *struct {
				Title    *string `json:"title"`
				Subtitle *string `json:"subtitle"`
			} `json:"presentation"`
		} `json:"data"`
	}

	params := url.Values{}
	params.Set("query", query)
	if err := c.get(ctx, "/searchAirport", params, &resp); err != nil {
		return nil, err
	}

	airports := make([]domain.Airport, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.SkyID == nil || d.EntityID == nil {
			continue
		}

		airport := domain.Airport{
			SkyID:    *d.SkyID,
			EntityID: *d.EntityID,
			Name:     unknown,
		}
		if d.Presentation != nil {
			if d.Presentation.Title != nil {
				airport.Name = *d.Presentation.Title
			}
			if d.Presentation.Subtitle != nil {
				airport.Country = *d.Presentation.Subtitle
			}
		}

		airports = append(airports, airport)
	}

	return airports, nil
}

// SearchFlights queries one-way flights for a day. Filtering is left to the caller.
func (c *Client) SearchFlights(ctx context.Context, origin, destination domain.Airport, date *time.Time) ([]Itinerary, error) {
	var resp struct {
		Data struct {
			Itineraries []struct {
				ID    *string `json:"id"`
				Price *struct {
					Raw *float64 `json:"raw"`
				} `json:"price"`
				Legs []struct {
					Origin *struct {
						ID       *string `json:"id"`
						EntityID *string `json:"entityId"`
					} `json:"origin"`
					Destination *struct {
						ID       *string `json:"id"`
						EntityID *string `json:"entityId"`
					} `json:"destination"`
					DurationInMinutes *int    `json:"durationInMinutes"`
					StopCount         *int    `json:"stopCount"`
					Departure         *string `json:"departure"`
					Arrival           *string `json:"arrival"`
					Carriers          *struct {
						Marketing []struct {
							Name *string `json:"name"`
						} `json:"marketing"`
					} `json:"carriers"`
					Segments []struct {
						FlightNumber *string `json:"flightNumber"`
					} `json:"segments"`
				} `json:"legs"`
			} `json:"itineraries"`
		} `json:"data"`
	}

	params := url.Values{}
	params.Set("originSkyId", origin.SkyID)
	params.Set("destinationSkyId", destination.SkyID)
	params.Set("originEntityId", origin.EntityID)
	params.Set("destinationEntityId", destination.EntityID)
	if date != nil {
		params.Set("date", date.Format(DateLayout))
	}

	if err := c.get(ctx, "/searchFlights", params, &resp); err != nil {
		return nil, err
	}

	result := make([]Itinerary, 0, len(resp.Data.Itineraries))
	for _, it := range resp.Data.Itineraries {
		if it.ID == nil || len(it.Legs) == 0 {
			continue
		}

		var missing []string
		flight := domain.Flight{ExternalID: *it.ID, FlightNumber: unknown}

		if it.Price != nil && it.Price.Raw != nil {
			flight.Price = *it.Price.Raw
		} else {
			missing = append(missing, "price")
		}

		leg := it.Legs[0]
		if leg.Origin != nil && leg.Origin.ID != nil {
			flight.OriginSkyID = *leg.Origin.ID
			if leg.Origin.EntityID != nil {
				flight.OriginEntityID = *leg.Origin.EntityID
			}
		} else {
			missing = append(missing, "origin")
		}
		if leg.Destination != nil && leg.Destination.ID != nil {
			flight.DestinationSkyID = *leg.Destination.ID
			if leg.Destination.EntityID != nil {
				flight.DestinationEntityID = *leg.Destination.EntityID
			}
		} else {
			missing = append(missing, "destination")
		}

		if leg.DurationInMinutes != nil {
			flight.DurationMinutes = *leg.DurationInMinutes
		} else {
			missing = append(missing, "duration_minutes")
		}
		if leg.StopCount != nil {
			flight.Stops = *leg.StopCount
		} else {
			missing = append(missing, "stops")
		}

		if t, ok := parseLegTime(leg.Departure); ok {
			flight.Departure = t
		} else {
			missing = append(missing, "departure")
		}
		if t, ok := parseLegTime(leg.Arrival); ok {
			flight.Arrival = t
		} else {
			missing = append(missing, "arrival")
		}

		if leg.Carriers != nil {
			for _, m := range leg.Carriers.Marketing {
				if m.Name != nil {
					flight.Carriers = append(flight.Carriers, *m.Name)
				}
			}
		}
		if len(flight.Carriers) == 0 {
			missing = append(missing, "carriers")
		}

		if len(leg.Segments) > 0 && leg.Segments[0].FlightNumber != nil {
			flight.FlightNumber = *leg.Segments[0].FlightNumber
		} else {
			missing = append(missing, "flight_number")
		}

		flight.MissingFields = missing
		result = append(result, Itinerary{Flight: flight, Legs: len(it.Legs)})
	}

	return result, nil
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

func parseLegTime(value *string) (time.Time, bool) {
	if value == nil {
		return time.Time{}, false
	}

	t, err := time.Parse(legTimeLayout, *value)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
