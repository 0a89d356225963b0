package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/seattle-events/internal/calendar"
	"github.com/pfrederiksen/seattle-events/internal/event"
)

func main() {
	// Create a sample event
	rec := &event.Record{
		URL:              "https://visitseattle.org/events/sample-market-tour/",
		Title:            "Pike Place Market Tour",
		Date:             time.Date(2026, 3, 15, 0, 0, 0, 0, event.Zone()),
		Venue:            "Pike Place Market",
		Category:         "Tours",
		Location:         "Downtown",
		WeatherCondition: "Partly Sunny",
	}

	// Generate .ics file
	icsContent := calendar.GenerateICS(rec)

	// Write to file (owner read/write only for security)
	filename := "test-seattle-event.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
