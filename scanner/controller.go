package scanner

import (
	"context"
	"errors"
	"io"
	"time"

	v1 "eventgate.io/eventgate/client/v1"
)

// State tracks where the scan loop currently is. Terminal per-code states
// (Registered, AlreadyCheckedIn, Failed) are shown briefly before the loop
// returns to Scanning.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateDetected
	StateSubmitting
	StateRegistered
	StateAlreadyCheckedIn
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateDetected:
		return "detected"
	case StateSubmitting:
		return "submitting"
	case StateRegistered:
		return "registered"
	case StateAlreadyCheckedIn:
		return "already-checked-in"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CodeSource yields scan codes one at a time. io.EOF ends the run; an empty
// code with nil error means nothing was detected this round.
type CodeSource interface {
	Poll(ctx context.Context) (string, error)
}

// Presentation is what the operator sees after a code is processed.
type Presentation struct {
	ScanCode    string
	Name        string
	CheckInTime time.Time
	Duplicate   bool
	Offline     bool
	NotFound    bool
	Message     string
}

// Presenter renders results and state transitions to the operator.
type Presenter interface {
	Show(p Presentation)
	Status(state State)
}

// API is the slice of the check-in service the controller needs.
type API interface {
	CheckIn(ctx context.Context, req v1.CheckInRequest) (*v1.CheckInResult, error)
}

// StatsRefresher is told to refetch counters after a successful check-in.
type StatsRefresher interface {
	Refresh(ctx context.Context)
}

const (
	defaultPollInterval = 100 * time.Millisecond
	defaultRefreshLag   = 2 * time.Second
)

// Controller drives the scan loop: poll a code, consult the local cache,
// submit to the server, and fall back to the relay when the server is
// unreachable. One scan code produces exactly one presentation.
type Controller struct {
	Source    CodeSource
	API       API
	Cache     *CheckInCache
	Notifier  Notifier
	Presenter Presenter
	Stats     StatsRefresher

	// PollInterval paces the source when it reports no code.
	PollInterval time.Duration
	// RefreshLag delays a second stats refresh so counters settle after
	// bursts of near-simultaneous check-ins.
	RefreshLag time.Duration

	DeviceInfo *string
	Location   *string
}

// Run polls the source until the context is done or the source reports
// io.EOF. Codes already seen within the run's debounce (the cache) are
// reported as duplicates without touching the network.
func (c *Controller) Run(ctx context.Context) error {
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	c.Presenter.Status(StateScanning)
	defer c.Presenter.Status(StateIdle)

	for {
		code, err := c.Source.Poll(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if code == "" {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
			continue
		}

		c.Presenter.Status(StateDetected)
		c.HandleCode(ctx, code)
		c.Presenter.Status(StateScanning)
	}
}

// HandleCode processes a single scan code through to a presentation.
func (c *Controller) HandleCode(ctx context.Context, scanCode string) {
	if entry, ok := c.Cache.Lookup(scanCode); ok {
		c.Presenter.Status(StateAlreadyCheckedIn)
		c.Presenter.Show(Presentation{
			ScanCode:    scanCode,
			Name:        entry.Name,
			CheckInTime: entry.CheckInTime,
			Duplicate:   true,
			Message:     "Already checked in",
		})
		return
	}

	c.Presenter.Status(StateSubmitting)
	result, err := c.API.CheckIn(ctx, v1.CheckInRequest{
		ScanCode:   scanCode,
		DeviceInfo: c.DeviceInfo,
		Location:   c.Location,
	})

	switch {
	case errors.Is(err, v1.ErrGuestNotFound):
		// Unknown code is a definitive answer, not an outage: no relay,
		// no cache entry, and the loop keeps going.
		c.Presenter.Status(StateFailed)
		c.Presenter.Show(Presentation{
			ScanCode: scanCode,
			NotFound: true,
			Message:  "Guest not found",
		})
		return

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Stopped mid-submission: the server outcome is unknown, so neither
		// the relay nor the cache may record anything for this code.
		c.Presenter.Status(StateFailed)
		return

	case err != nil:
		c.relay(ctx, scanCode)
		return
	}

	if result.Guest.IsDuplicate {
		when := time.Now()
		if result.Guest.CheckInTime != nil {
			when = *result.Guest.CheckInTime
		}
		c.Presenter.Status(StateAlreadyCheckedIn)
		c.Presenter.Show(Presentation{
			ScanCode:    scanCode,
			Name:        result.Guest.Name,
			CheckInTime: when,
			Duplicate:   true,
			Message:     result.Message,
		})
		return
	}

	when := time.Now()
	if result.Guest.CheckInTime != nil {
		when = *result.Guest.CheckInTime
	}
	c.Cache.Add(CacheEntry{
		ScanCode:    scanCode,
		Name:        result.Guest.Name,
		CheckInTime: when,
	})

	c.Presenter.Status(StateRegistered)
	c.Presenter.Show(Presentation{
		ScanCode:    scanCode,
		Name:        result.Guest.Name,
		CheckInTime: when,
		Message:     result.Message,
	})

	c.refreshStats(ctx)
}

// relay is the degraded path: exactly one attempt against the fallback
// webhook, then a presentation either way. Offline results are cached so a
// rescan during the outage still reads as a duplicate.
func (c *Controller) relay(ctx context.Context, scanCode string) {
	if c.Notifier == nil {
		c.Presenter.Status(StateFailed)
		c.Presenter.Show(Presentation{
			ScanCode: scanCode,
			Offline:  true,
			Message:  "Check-in service unreachable",
		})
		c.Cache.Add(CacheEntry{ScanCode: scanCode, Name: "Guest", CheckInTime: time.Now(), Offline: true})
		return
	}

	text, err := c.Notifier.Notify(ctx, scanCode)
	if err != nil {
		c.Presenter.Status(StateFailed)
		c.Presenter.Show(Presentation{
			ScanCode: scanCode,
			Offline:  true,
			Message:  "Check-in service and relay both unreachable",
		})
		c.Cache.Add(CacheEntry{ScanCode: scanCode, Name: "Guest", CheckInTime: time.Now(), Offline: true})
		return
	}

	name := ParseGuestName(text)
	if name == "" {
		name = "Guest"
	}
	when := time.Now()
	c.Cache.Add(CacheEntry{ScanCode: scanCode, Name: name, CheckInTime: when, Offline: true})

	c.Presenter.Status(StateRegistered)
	c.Presenter.Show(Presentation{
		ScanCode:    scanCode,
		Name:        name,
		CheckInTime: when,
		Offline:     true,
		Message:     "Registered via relay",
	})
}

func (c *Controller) refreshStats(ctx context.Context) {
	if c.Stats == nil {
		return
	}
	c.Stats.Refresh(ctx)

	lag := c.RefreshLag
	if lag <= 0 {
		lag = defaultRefreshLag
	}
	// Detached from the per-code context so the follow-up still fires after
	// HandleCode returns.
	bg := context.WithoutCancel(ctx)
	time.AfterFunc(lag, func() {
		c.Stats.Refresh(bg)
	})
}
