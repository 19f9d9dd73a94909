package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/ngenohkevin/backupdeck/internal/status"
)

// ErrBusy is returned when a clear is already outstanding for the control
var ErrBusy = errors.New("clear already in progress")

// Clearer issues clear requests against the backup server
type Clearer interface {
	Clear(ctx context.Context, section status.Section) (status.ClearResult, error)
}

// RefreshFunc re-fetches the status after a clear. It reports its own
// failures, so the control ignores the returned error.
type RefreshFunc func(ctx context.Context) error

// ClearControl is the clear button of one clearable section
type ClearControl struct {
	target  status.Section
	client  Clearer
	refresh RefreshFunc
	logger  *log.Logger
	busy    atomic.Bool
}

// NewClearControl creates a control bound to a clearable section
func NewClearControl(target status.Section, client Clearer, refresh RefreshFunc, logger *log.Logger) (*ClearControl, error) {
	if !target.Clearable() {
		return nil, fmt.Errorf("%w: %q cannot be cleared", status.ErrUnknownSection, target)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ClearControl{
		target:  target,
		client:  client,
		refresh: refresh,
		logger:  logger,
	}, nil
}

// Target returns the section this control clears
func (c *ClearControl) Target() status.Section {
	return c.target
}

// Label returns the button caption
func (c *ClearControl) Label() string {
	return "clear " + c.target.String()
}

// Busy reports whether a clear is outstanding
func (c *ClearControl) Busy() bool {
	return c.busy.Load()
}

// Activate clears the section and refreshes the status. Failures only
// produce a log line; the control is released on every path.
func (c *ClearControl) Activate(ctx context.Context) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	result, err := c.client.Clear(ctx, c.target)
	if err != nil {
		c.logger.Printf("clear %s failed: %v", c.target, err)
	} else {
		c.logger.Printf("%s %s", c.target, result.Message)
	}

	if c.refresh != nil {
		_ = c.refresh(ctx)
	}

	return nil
}
