// Package trip holds the request and response shapes exchanged with clients.
// Everything the model produces is opaque JSON until it has been normalized;
// the typed Itinerary below only describes the shape the prompts ask for.
package trip

import "encoding/json"

// ItineraryRequest carries the generate-itinerary inputs. Nothing is
// validated beyond JSON syntax: any value type is accepted and rendered
// as text, and missing values render as empty in the prompt.
type ItineraryRequest struct {
	Source         Text `json:"source"`
	Destination    Text `json:"destination"`
	Path           List `json:"path"`
	Activities     List `json:"activities_to_attend"`
	TripLength     Text `json:"trip_length"`
	DateRange      List `json:"date_range"`
	Budget         Text `json:"budget"`
	Accommodations List `json:"accomodations"`
	Restaurants    List `json:"restaurants"`
	NumberOfPeople Text `json:"numberofpeople"`
}

type EditRequest struct {
	SessionID        string          `json:"session_id"`
	CurrentItinerary json.RawMessage `json:"current_itinerary"`
	Message          string          `json:"message" binding:"required"`
}

// Transport modes accepted by the cost estimator.
const (
	ModeFlight = "flight"
	ModeTrain  = "train"
	ModeBus    = "bus"
)

type TransportationQuery struct {
	Source      string `json:"source" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Date        string `json:"date"`
	Mode        string `json:"type" binding:"required,oneof=flight train bus"`
}

type LegalDocsRequest struct {
	Source      string `json:"source" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

// Place categories understood by the lookup adapter.
const (
	CategoryAccommodation = "accommodation"
	CategoryRestaurant    = "restaurant"
)

type PlaceQuery struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"type"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

type Review struct {
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
	Time   string `json:"time,omitempty"`
}

type PlaceDetails struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Rating       float32  `json:"rating"`
	Photos       []string `json:"photos"`
	Website      string   `json:"website,omitempty"`
	OpeningHours []string `json:"opening_hours"`
	Reviews      []Review `json:"reviews"`
	MapsURL      string   `json:"maps_url"`
}

// Itinerary is the structure the itinerary prompts request. Model output is
// advisory, so decoding into it is best effort.
type Itinerary struct {
	DayWisePlan           []DayPlan      `json:"day_wise_plan"`
	AdditionalSuggestions map[string]any `json:"additional_suggestions"`
}

type DayPlan struct {
	Day            string           `json:"day"`
	Date           string           `json:"date"`
	Destination    string           `json:"destination"`
	Activities     []string         `json:"activities"`
	Accommodations []string         `json:"accomodations"`
	Restaurants    []string         `json:"restaurants"`
	Events         []string         `json:"events"`
	Transportation []TransportRoute `json:"transportation"`
	EstimatedCost  string           `json:"estimated_cost"`
}

type TransportRoute struct {
	Route   string            `json:"route"`
	Options []TransportOption `json:"options"`
}

type TransportOption struct {
	Mode     string `json:"mode"`
	Duration string `json:"duration"`
	Distance string `json:"distance"`
	Link     string `json:"link"`
	Cost     string `json:"cost"`
}
