package app

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ICS constants
const (
	ICSProductID = "-//SHE//Evenementenkalender//NL"
	ICSTimezone  = "Europe/Amsterdam"

	// defaultEventDuration is used for DTEND; events carry no end time.
	defaultEventDuration = 2 * time.Hour
)

// writeString writes to w and logs any error (helper for ICS generation)
func writeString(w io.Writer, s string) {
	if _, err := fmt.Fprint(w, s); err != nil {
		log.Printf("Error writing to response: %v", err)
	}
}

// HandleFeed serves the upcoming events of a category as a downloadable
// ICS, CSV or JSON file.
func (s *Server) HandleFeed(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	eventType := r.URL.Query().Get("type")
	format := r.URL.Query().Get("format")

	canonical, err := CanonicalCategory(eventType)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, MsgInvalidType)
		return
	}

	events, err := s.repo.Upcoming(r.Context(), canonical)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, MsgInvalidType)
		return
	}

	switch format {
	case "ics", "":
		GenerateICS(w, canonical, events)
	case "csv":
		GenerateCSV(w, canonical, events)
	case "json":
		GenerateJSON(w, canonical, events)
	default:
		writeJSONError(w, http.StatusBadRequest, MsgGenericError)
	}
}

// GenerateICS generates an iCalendar (ICS) file for the given events
func GenerateICS(w http.ResponseWriter, canonical string, events []Event) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=she_%s_agenda.ics", canonical))

	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", ICSProductID)
	fmt.Fprintf(w, "X-WR-CALNAME:SHE Agenda (%s)\n", canonical)
	fmt.Fprintf(w, "X-WR-TIMEZONE:%s\n", ICSTimezone)
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")

	for _, event := range events {
		start, err := time.Parse(time.RFC3339, event.Datum)
		if err != nil {
			continue
		}
		start = start.UTC()
		end := start.Add(defaultEventDuration)

		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:%s@she-is.nl\n", event.ID)
		fmt.Fprintf(w, "DTSTAMP:%s\n", time.Now().UTC().Format("20060102T150405Z"))
		fmt.Fprintf(w, "DTSTART:%s\n", start.Format("20060102T150405Z"))
		fmt.Fprintf(w, "DTEND:%s\n", end.Format("20060102T150405Z"))
		fmt.Fprintf(w, "SUMMARY:%s\n", event.Titel)
		fmt.Fprintf(w, "DESCRIPTION:%s\n", event.Beschrijving)
		fmt.Fprintf(w, "LOCATION:%s\n", event.Locatie)
		fmt.Fprintln(w, "END:VEVENT")
	}

	writeString(w, "END:VCALENDAR\n")
}

// GenerateCSV generates a CSV file for the given events
func GenerateCSV(w http.ResponseWriter, canonical string, events []Event) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=she_%s_agenda.csv", canonical))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"id", "titel", "beschrijving", "datum", "locatie"}); err != nil {
		log.Printf("Error writing CSV header: %v", err)
		return
	}

	for _, event := range events {
		record := []string{event.ID, event.Titel, event.Beschrijving, event.Datum, event.Locatie}
		if err := writer.Write(record); err != nil {
			log.Printf("Error writing CSV record: %v", err)
			return
		}
	}
}

// GenerateJSON generates a JSON download for the given events
func GenerateJSON(w http.ResponseWriter, canonical string, events []Event) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=she_%s_agenda.json", canonical))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(events); err != nil {
		log.Printf("Error encoding JSON download: %v", err)
	}
}
