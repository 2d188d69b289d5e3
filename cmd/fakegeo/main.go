// Command fakegeo serves canned Nominatim search and reverse responses for
// offline development of the picker and the locator service.
//
// Usage:
//
//	go run ./cmd/fakegeo --addr :8090
//	go run ./cmd/fakegeo --fixtures places.json --dump
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/couchcryptid/pg-locator/internal/adapter/nominatim/nominatimtest"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	addr := flag.String("addr", ":8090", "listen address")
	fixturesPath := flag.String("fixtures", "", "JSON file with fixture places (default: built-in set)")
	dump := flag.Bool("dump", false, "print the fixtures as JSON and exit")
	flag.Parse()

	fixtures := nominatimtest.DefaultFixtures()
	if *fixturesPath != "" {
		loaded, err := readFixtures(*fixturesPath)
		if err != nil {
			return err
		}
		fixtures = loaded
	}

	if *dump {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(fixtures)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           nominatimtest.NewHandler(fixtures),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("fake nominatim listening on %s with %d places", *addr, len(fixtures))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func readFixtures(path string) ([]nominatimtest.Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures []nominatimtest.Fixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("decode fixtures %s: %w", path, err)
	}
	for i, f := range fixtures {
		if err := f.Coordinate.Validate(); err != nil {
			return nil, fmt.Errorf("fixture %d (%s): %w", i, f.DisplayName, err)
		}
	}
	return fixtures, nil
}
