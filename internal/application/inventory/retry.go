package inventory

import (
	"errors"

	"github.com/vclothes/backend/internal/domain/shared"
)

// DefaultSaveRetryAttempts bounds the optimistic-conflict retry loop when the
// configuration does not override it.
const DefaultSaveRetryAttempts = 3

// RetryOnConflict runs fn up to attempts times while it fails with
// CONCURRENCY_CONFLICT. Each retry re-runs the whole read-modify-write cycle
// against fresh state, so a lost update becomes a retried update. Any other
// error, including INSUFFICIENT_STOCK discovered on the re-read, stops the
// loop immediately.
func RetryOnConflict(attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "CONCURRENCY_CONFLICT" {
			return err
		}
	}
	return err
}
