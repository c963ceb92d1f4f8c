// Package health contains the check behind the health endpoint of a Canopy server.
package health

import (
	"context"
	"time"
)

// TargetService defines an interface that services can implement for server health checks.
type TargetService interface {
	IsReady(ctx context.Context) (bool, error)
}

type Status string

const (
	Serving    Status = "SERVING"
	NotServing Status = "NOT_SERVING"
)

// DefaultTimeout bounds a single readiness probe.
const DefaultTimeout = 2 * time.Second

type Checker struct {
	TargetService

	// Timeout bounds each check. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Check reports whether the target service can serve requests. An error is returned along
// with NotServing when the probe itself failed.
func (o *Checker) Check(ctx context.Context) (Status, error) {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ready, err := o.IsReady(ctx)
	if err != nil {
		return NotServing, err
	}

	if !ready {
		return NotServing, nil
	}

	return Serving, nil
}
