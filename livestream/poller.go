package livestream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mdobak/go-xerrors"
	"golang.org/x/time/rate"

	"waveline/utils"
)

// Poller drives the livestream status check on the smart schedule. Check
// errors are logged and the previous state kept - a flaky status endpoint
// shouldn't flap the UI.
type Poller struct {
	Schedule []ServiceTime
	Check    func(ctx context.Context) (bool, error)
	OnChange func(live bool)

	limiter *rate.Limiter
	live    bool
}

func NewPoller(schedule []ServiceTime, check func(ctx context.Context) (bool, error)) *Poller {
	return &Poller{
		Schedule: schedule,
		Check:    check,
		//hard ceiling regardless of how tight the schedule gets
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 1),
	}
}

// Live reports the last observed stream state.
func (p *Poller) Live() bool {
	return p.live
}

// Run polls until ctx is cancelled. Intended to be launched as a goroutine;
// single-threaded with respect to its own state.
func (p *Poller) Run(ctx context.Context) {
	logger := utils.GetLogger()

	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return
		}

		live, err := p.Check(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.ErrorContext(ctx, "Livestream status check failed.",
				slog.Any("error", xerrors.New(err)))
		} else if live != p.live {
			p.live = live
			if p.OnChange != nil {
				p.OnChange(live)
			}
		}

		interval := NextPollInterval(time.Now(), p.Schedule)
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// HTTPCheck builds a status check against a JSON endpoint answering
// {"live": bool}.
func HTTPCheck(statusURL string) func(ctx context.Context) (bool, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	return func(ctx context.Context) (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
		if err != nil {
			return false, err
		}

		resp, err := client.Do(req)
		if err != nil {
			return false, fmt.Errorf("status request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return false, fmt.Errorf("status request returned %s", resp.Status)
		}

		var payload struct {
			Live bool `json:"live"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return false, fmt.Errorf("could not decode status payload: %v", err)
		}
		return payload.Live, nil
	}
}
