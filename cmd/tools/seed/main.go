// main.go - Seeds a running sitepulse instance with synthetic traffic
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	v1 "sitepulse/api/v1"
	"sitepulse/internal/events"
)

var paths = []string{
	"/",
	"/pricing",
	"/blog",
	"/blog/launch",
	"/docs",
	"/docs/setup",
	"/about",
	"/contact",
}

var sources = []string{"", "", "", "newsletter", "producthunt", "twitter", "github"}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (iPad; CPU OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
}

func main() {
	baseURL := flag.String("url", "http://localhost:3000", "Base URL of the running instance")
	count := flag.Int("n", 200, "Number of events to send")
	sessionCount := flag.Int("sessions", 25, "Number of distinct sessions to spread events over")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	randGen := rand.New(rand.NewSource(time.Now().UnixNano()))

	sent, failed := 0, 0
	for i := 0; i < *count; i++ {
		session := fmt.Sprintf("seed-session-%d", randGen.Intn(*sessionCount))
		path := paths[randGen.Intn(len(paths))]

		pageURL := "https://example.com" + path
		if source := sources[randGen.Intn(len(sources))]; source != "" {
			pageURL += "?utm_source=" + source
		}

		params := v1.CreateEventParams{
			EventType:   events.EventTypePageView,
			PageURL:     pageURL,
			Referrer:    "https://google.com/",
			SessionID:   session,
			VisitorID:   session + "-visitor",
			ScrollDepth: randGen.Intn(101),
		}

		if err := postEvent(client, *baseURL, userAgents[randGen.Intn(len(userAgents))], params); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "failed to send event: %v\n", err)
			continue
		}
		sent++
	}

	fmt.Printf("Seeded %d events (%d failed) against %s\n", sent, failed, *baseURL)
	if failed > 0 {
		os.Exit(1)
	}
}

func postEvent(client *http.Client, baseURL, userAgent string, params v1.CreateEventParams) error {
	payload, err := json.Marshal(params)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/events", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
