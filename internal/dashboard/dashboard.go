package dashboard

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ngenohkevin/backupdeck/internal/status"
)

// Title is the page heading
const Title = "Backup server"

// Backend is the part of the backup server API the dashboard needs
type Backend interface {
	Clearer
	FetchStatus(ctx context.Context) (status.Status, error)
}

// Options tunes a Dashboard
type Options struct {
	Location     *time.Location
	RowsCacheTTL time.Duration
	Logger       *log.Logger
	Now          func() time.Time
}

// ClearButton is the render state of a clear control
type ClearButton struct {
	Target status.Section `json:"target"`
	Label  string         `json:"label"`
	Busy   bool           `json:"busy"`
}

// View is everything the page shows
type View struct {
	Title       string        `json:"title"`
	Buttons     []ClearButton `json:"buttons"`
	Sections    []SectionView `json:"sections"`
	Version     uint64        `json:"version"`
	RefreshedAt *time.Time    `json:"refreshed_at,omitempty"`
	LastRefresh string        `json:"last_refresh"`
}

// Dashboard owns the status snapshot. Only Refresh replaces it; every
// reader gets derived, read-only values.
type Dashboard struct {
	backend   Backend
	logger    *log.Logger
	formatter *Formatter
	now       func() time.Time
	controls  []*ClearControl

	mu          sync.RWMutex
	current     status.Status
	version     uint64
	refreshedAt time.Time
	closed      bool

	issued    atomic.Uint64
	mountOnce sync.Once
	mountErr  error
}

// New creates a dashboard holding the empty status
func New(backend Backend, opts Options) *Dashboard {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	d := &Dashboard{
		backend:   backend,
		logger:    opts.Logger,
		formatter: NewFormatter(opts.Location, opts.RowsCacheTTL),
		now:       opts.Now,
		current:   status.Empty(),
	}

	for _, section := range status.ClearableSections() {
		// Clearable sections never fail here
		control, _ := NewClearControl(section, backend, d.Refresh, opts.Logger)
		d.controls = append(d.controls, control)
	}

	return d
}

// Mount performs the initial fetch. Later calls return the first result.
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mountOnce.Do(func() {
		d.mountErr = d.Refresh(ctx)
	})
	return d.mountErr
}

// Refresh fetches the status and replaces the snapshot. On failure the
// snapshot is left untouched. Only the most recently issued fetch may
// apply its result.
func (d *Dashboard) Refresh(ctx context.Context) error {
	seq := d.issued.Add(1)

	s, err := d.backend.FetchStatus(ctx)
	if err != nil {
		d.logger.Printf("status refresh failed: %v", err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}

	if latest := d.issued.Load(); seq != latest {
		d.logger.Printf("discarding stale status response #%d (latest #%d)", seq, latest)
		return nil
	}

	d.current = s
	d.version++
	d.refreshedAt = d.now()

	return nil
}

// StartPolling refreshes every interval until ctx is done. A
// non-positive interval disables polling.
func (d *Dashboard) StartPolling(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				_ = d.Refresh(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close unmounts the dashboard; responses still in flight are dropped
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	d.formatter.Close()
}

// Snapshot returns the current status. Callers must not modify it.
func (d *Dashboard) Snapshot() (status.Status, uint64) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.current, d.version
}

// Version returns the number of snapshots applied so far
func (d *Dashboard) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.version
}

// Controls returns the clear controls in header order
func (d *Dashboard) Controls() []*ClearControl {
	return d.controls
}

// Control returns the clear control for a section
func (d *Dashboard) Control(section status.Section) (*ClearControl, error) {
	for _, c := range d.controls {
		if c.Target() == section {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q cannot be cleared", status.ErrUnknownSection, section)
}

// View composes the header buttons and one section view per entry
func (d *Dashboard) View() View {
	d.mu.RLock()
	current, version, refreshedAt := d.current, d.version, d.refreshedAt
	d.mu.RUnlock()

	view := View{
		Title:       Title,
		Version:     version,
		LastRefresh: "never",
	}

	for _, c := range d.controls {
		view.Buttons = append(view.Buttons, ClearButton{
			Target: c.Target(),
			Label:  c.Label(),
			Busy:   c.Busy(),
		})
	}

	for _, entry := range current.Entries() {
		view.Sections = append(view.Sections, d.formatter.Section(version, entry.Section, entry.Tasks))
	}

	if !refreshedAt.IsZero() {
		view.RefreshedAt = &refreshedAt
		view.LastRefresh = humanize.RelTime(refreshedAt, d.now(), "ago", "from now")
	}

	return view
}
