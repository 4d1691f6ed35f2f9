package info

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

type probePayload struct {
	Status  string   `json:"status"`
	Details []string `json:"details,omitempty"`
}

func (ih *InfoHandler) respondProbe(w http.ResponseWriter, r *http.Request, statusCode int, state string, details ...string) {
	payload := probePayload{Status: state}
	if len(details) > 0 {
		payload.Details = append(payload.Details, details...)
	}
	ih.RespondWithJSON(w, r, statusCode, payload)
}

// runChecks runs the checks concurrently under one shared deadline and
// reports every failure, ordered by check position.
func (ih *InfoHandler) runChecks(ctx context.Context, checks []ProbeFunc) error {
	checks = filterProbes(checks)
	if len(checks) == 0 {
		return nil
	}

	timeout := ih.probeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errs := make([]error, len(checks))
	var wg sync.WaitGroup
	for idx, check := range checks {
		wg.Go(func() {
			errs[idx] = describeProbeError(idx+1, timeout, check(probeCtx))
		})
	}
	wg.Wait()

	return errors.Join(errs...)
}

func describeProbeError(n int, timeout time.Duration, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("probe %d timed out after %s", n, timeout)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("probe %d was cancelled", n)
	default:
		return fmt.Errorf("probe %d failed: %w", n, err)
	}
}

func filterProbes(checks []ProbeFunc) []ProbeFunc {
	var filtered []ProbeFunc
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return filtered
}
