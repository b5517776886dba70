// README: Prompt builder; renders one instruction block per AI endpoint from typed requests.

// Package prompt renders the instruction text sent to the completion service.
//
// Every builder is a pure function of its input. Request values are inserted
// verbatim: nothing is escaped or filtered for prompt injection, the model is
// the only consumer of the text. The data struct behind each template lists
// exactly which fields are inserted.
package prompt

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"

	"tripwise/internal/trip"
)

var funcs = template.FuncMap{
	"list": func(items []string) string { return strings.Join(items, ", ") },
}

var (
	itineraryTmpl = template.Must(template.New("itinerary").Funcs(funcs).Parse(itineraryText))
	editTmpl      = template.Must(template.New("edit").Parse(editText))
	transportTmpl = template.Must(template.New("transport").Parse(transportText))
	legalTmpl     = template.Must(template.New("legal").Parse(legalText))
)

type itineraryData struct {
	Source         string
	Destination    string
	Path           []string
	Activities     []string
	TripLength     string
	DateRange      []string
	Budget         string
	Accommodations []string
	Restaurants    []string
	NumberOfPeople string
}

// Itinerary renders the generate-itinerary prompt.
func Itinerary(req trip.ItineraryRequest) string {
	return render(itineraryTmpl, itineraryData{
		Source:         string(req.Source),
		Destination:    string(req.Destination),
		Path:           req.Path,
		Activities:     req.Activities,
		TripLength:     string(req.TripLength),
		DateRange:      req.DateRange,
		Budget:         string(req.Budget),
		Accommodations: req.Accommodations,
		Restaurants:    req.Restaurants,
		NumberOfPeople: string(req.NumberOfPeople),
	})
}

type editData struct {
	Current string
	Message string
}

// EditItinerary renders the edit prompt. current is the caller's itinerary
// JSON; it is compacted so formatting differences do not change the prompt.
func EditItinerary(current json.RawMessage, message string) string {
	return render(editTmpl, editData{Current: CompactJSON(current), Message: message})
}

type transportData struct {
	Source      string
	Destination string
	Date        string
	Mode        string
	Reference   string
}

// TransportationCosts renders the cost-estimate prompt. reference is an
// optional one-line route summary (distance, duration) from the maps
// directions service; it is left out when empty.
func TransportationCosts(q trip.TransportationQuery, reference string) string {
	return render(transportTmpl, transportData{
		Source:      q.Source,
		Destination: q.Destination,
		Date:        q.Date,
		Mode:        q.Mode,
		Reference:   reference,
	})
}

type legalData struct {
	Source      string
	Destination string
}

func LegalDocuments(req trip.LegalDocsRequest) string {
	return render(legalTmpl, legalData{Source: req.Source, Destination: req.Destination})
}

// DescribeImage is the fixed instruction sent along with an uploaded image.
func DescribeImage() string {
	return describeImageText
}

// CompactJSON returns raw with insignificant whitespace removed. Input that
// is not valid JSON is returned trimmed but otherwise untouched.
func CompactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}

func render(t *template.Template, data any) string {
	var sb strings.Builder
	// The templates are static and the data structs only hold strings and
	// slices, so Execute cannot fail at runtime.
	if err := t.Execute(&sb, data); err != nil {
		panic("prompt: " + t.Name() + ": " + err.Error())
	}
	return sb.String()
}
