// README: CLI demo; renders an itinerary prompt, calls the configured provider and prints a day summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"tripwise/internal/ai"
	"tripwise/internal/config"
	"tripwise/internal/prompt"
	"tripwise/internal/trip"
)

func main() {
	var (
		destination = flag.String("destination", "Paris", "trip destination")
		source      = flag.String("source", "", "departure city")
		days        = flag.Int("days", 3, "trip length in days")
		start       = flag.String("start", time.Now().AddDate(0, 1, 0).Format("2006-01-02"), "first day (YYYY-MM-DD)")
		budget      = flag.String("budget", "$1000", "total budget")
		people      = flag.Int("people", 2, "number of travelers")
		activities  = flag.String("activities", "museums,food tour", "comma separated activities")
		printPrompt = flag.Bool("print-prompt", false, "print the rendered prompt and exit")
	)
	flag.Parse()

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatalf("invalid -start: %v", err)
	}
	req := trip.ItineraryRequest{
		Source:         trip.Text(*source),
		Destination:    trip.Text(*destination),
		Activities:     splitList(*activities),
		TripLength:     trip.Text(strconv.Itoa(*days)),
		DateRange:      []string{startDate.Format("2006-01-02"), startDate.AddDate(0, 0, *days-1).Format("2006-01-02")},
		Budget:         trip.Text(*budget),
		NumberOfPeople: trip.Text(strconv.Itoa(*people)),
	}

	text := prompt.Itinerary(req)
	if *printPrompt {
		fmt.Println(text)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	var completer ai.Completer
	switch cfg.AI.Provider {
	case config.ProviderOpenAI:
		completer = ai.NewOpenAIProvider(cfg.AI.OpenAIKey, cfg.AI.Model, "")
	default:
		provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey, cfg.AI.Model)
		if err != nil {
			log.Fatalf("Failed to initialize AI provider: %v", err)
		}
		defer provider.Close()
		completer = provider
	}
	completer = ai.NewGuarded(completer, ai.GuardConfig{Timeout: cfg.AI.Timeout, MaxRetries: cfg.AI.MaxRetries})

	fmt.Printf("Planning %d days in %s with %s (%s)...\n", *days, *destination, cfg.AI.Provider, cfg.AI.Model)
	began := time.Now()
	raw, err := completer.Complete(ctx, ai.Request{Prompt: text})
	if err != nil {
		log.Fatalf("completion failed: %v", err)
	}

	var itinerary trip.Itinerary
	if err := ai.NormalizeInto(raw, &itinerary); err != nil {
		fmt.Fprintln(os.Stderr, ai.StripFences(raw))
		log.Fatalf("reply was not an itinerary: %v", err)
	}

	fmt.Printf("Received %d days in %s\n\n", len(itinerary.DayWisePlan), time.Since(began).Round(time.Millisecond))
	for _, d := range itinerary.DayWisePlan {
		fmt.Printf("%s %s: %s\n", d.Day, d.Date, d.Destination)
		for _, a := range d.Activities {
			fmt.Printf("  - %s\n", a)
		}
		if d.EstimatedCost != "" {
			fmt.Printf("  cost: %s\n", d.EstimatedCost)
		}
	}
	if len(itinerary.AdditionalSuggestions) > 0 {
		keys := make([]string, 0, len(itinerary.AdditionalSuggestions))
		for k := range itinerary.AdditionalSuggestions {
			keys = append(keys, k)
		}
		fmt.Printf("\nAdditional suggestions: %s\n", strings.Join(keys, ", "))
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
