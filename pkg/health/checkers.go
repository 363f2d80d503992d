package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when more than threshold goroutines are running.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

// CatalogCheck fails while the catalog holds no products.
func CatalogCheck(size func() int) CheckFunc {
	return func(_ context.Context) error {
		if size() == 0 {
			return errors.New("catalog is empty")
		}
		return nil
	}
}

// SessionLimitCheck fails when more than limit sessions are live. A
// non-positive limit disables the check.
func SessionLimitCheck(count func() int, limit int) CheckFunc {
	return func(_ context.Context) error {
		if n := count(); limit > 0 && n > limit {
			return errors.Errorf("%d live sessions exceed limit %d", n, limit)
		}
		return nil
	}
}
