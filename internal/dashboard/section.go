package dashboard

import (
	"fmt"
	"time"

	"github.com/ngenohkevin/backupdeck/internal/cache"
	"github.com/ngenohkevin/backupdeck/internal/status"
)

// NoTasks is the placeholder text of an empty section
const NoTasks = "no tasks"

// InvalidDate is shown for timestamps that cannot be parsed
const InvalidDate = "Invalid Date"

// Row is a task ready for display
type Row struct {
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at"`
}

// SectionView is one rendered task table
type SectionView struct {
	Name status.Section `json:"name"`
	Rows []Row          `json:"rows"`
}

// Placeholder reports whether the table shows the single "no tasks" row
func (v SectionView) Placeholder() bool {
	return len(v.Rows) == 0
}

// zoned layouts are tried first; the rest are read in the display location
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05Z07:00",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
)

// FormatTimestamp renders a wire timestamp the way ja-JP locales do,
// e.g. 2024/1/1 9:05:00.
func FormatTimestamp(raw string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	t, ok := parseTimestamp(raw, loc)
	if !ok {
		return InvalidDate
	}

	t = t.In(loc)
	return fmt.Sprintf("%d/%d/%d %d:%02d:%02d",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	// Date-only values are UTC midnight
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Rows transforms tasks into display rows, keeping their order
func Rows(tasks []status.Task, loc *time.Location) []Row {
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, Row{
			Name:      t.Name,
			UpdatedAt: FormatTimestamp(t.UpdatedAt, loc),
		})
	}
	return rows
}

// Formatter memoizes the row transform per snapshot version and section
type Formatter struct {
	loc  *time.Location
	rows *cache.Cache[[]Row]
}

// NewFormatter creates a formatter for the given display location
func NewFormatter(loc *time.Location, ttl time.Duration) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Formatter{
		loc:  loc,
		rows: cache.New[[]Row](ttl),
	}
}

// Section builds the view for one section of snapshot `version`
func (f *Formatter) Section(version uint64, section status.Section, tasks []status.Task) SectionView {
	rows := f.rows.GetOrSet(cache.RowsKey(version, section.String()), func() []Row {
		return Rows(tasks, f.loc)
	})
	return SectionView{Name: section, Rows: rows}
}

// Close releases the row cache
func (f *Formatter) Close() {
	f.rows.Close()
}
