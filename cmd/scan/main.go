package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	v1 "eventgate.io/eventgate/client/v1"
	"eventgate.io/eventgate/config"
	"eventgate.io/eventgate/scanner"
)

// stdinSource reads one scan code per line; EOF ends the run.
type stdinSource struct {
	scanner *bufio.Scanner
}

func (s *stdinSource) Poll(ctx context.Context) (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.scanner.Text()), nil
}

type consolePresenter struct{}

func (consolePresenter) Status(state scanner.State) {
	fmt.Printf("-- %s\n", state)
}

func (consolePresenter) Show(p scanner.Presentation) {
	switch {
	case p.NotFound:
		fmt.Printf("?? %s: guest not found\n", p.ScanCode)
	case p.Duplicate:
		fmt.Printf("!! %s: %s already checked in at %s\n", p.ScanCode, p.Name, p.CheckInTime.Format("15:04:05"))
	case p.Offline && p.Name == "":
		fmt.Printf("xx %s: %s\n", p.ScanCode, p.Message)
	case p.Offline:
		fmt.Printf("~~ %s: %s registered via relay\n", p.ScanCode, p.Name)
	default:
		fmt.Printf("ok %s: welcome %s (%s)\n", p.ScanCode, p.Name, p.CheckInTime.Format("15:04:05"))
	}
}

type statsPrinter struct {
	client *v1.EventgateClient
}

func (s *statsPrinter) Refresh(ctx context.Context) {
	stats, err := s.client.Checkins.Stats(ctx)
	if err != nil {
		log.Printf("stats refresh failed: %v", err)
		return
	}
	fmt.Printf("== %d/%d attended (%.2f%%), %d today\n",
		stats.AttendedGuests, stats.TotalGuests, stats.AttendanceRate, stats.TodayAttendance)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	cache, err := scanner.LoadCheckInCache(cfg.CacheFile, scanner.DefaultCacheCapacity)
	if err != nil {
		log.Fatal(err)
	}

	client := v1.NewEventgateClient(cfg.APIBaseURL)

	var notifier scanner.Notifier
	if cfg.WebhookURL != "" {
		notifier = scanner.NewWebhookNotifier(cfg.WebhookURL)
	}

	ctrl := &scanner.Controller{
		Source:    &stdinSource{scanner: bufio.NewScanner(os.Stdin)},
		API:       client.Checkins,
		Cache:     cache,
		Notifier:  notifier,
		Presenter: consolePresenter{},
		Stats:     &statsPrinter{client: client},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Scanning against %s, type or pipe codes, one per line.\n", cfg.APIBaseURL)
	runErr := ctrl.Run(ctx)

	if err := cache.Save(cfg.CacheFile); err != nil {
		log.Printf("save cache: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatal(runErr)
	}
}
