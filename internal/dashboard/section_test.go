package dashboard

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngenohkevin/backupdeck/internal/status"
)

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return loc
}

func TestFormatTimestamp(t *testing.T) {
	jst := tokyo(t)

	tests := []struct {
		name string
		raw  string
		loc  *time.Location
		want string
	}{
		{"utc midnight", "2024-01-01T00:00:00Z", time.UTC, "2024/1/1 0:00:00"},
		{"shifted to tokyo", "2024-01-01T00:00:00Z", jst, "2024/1/1 9:00:00"},
		{"offset and fraction", "2024-03-01T10:00:05.250+02:00", time.UTC, "2024/3/1 8:00:05"},
		{"python str without zone", "2024-03-01 10:00:05.123456", jst, "2024/3/1 10:00:05"},
		{"iso without zone", "2024-12-31T23:59:59", time.UTC, "2024/12/31 23:59:59"},
		{"date only", "2024-02-29", time.UTC, "2024/2/29 0:00:00"},
		{"garbage", "yesterday", time.UTC, InvalidDate},
		{"empty", "", time.UTC, InvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTimestamp(tt.raw, tt.loc))
		})
	}
}

func TestRows(t *testing.T) {
	tasks := []status.Task{
		{Name: "b", UpdatedAt: "2024-01-02T00:00:00Z"},
		{Name: "a", UpdatedAt: "2024-01-01T00:00:00Z"},
	}

	rows := Rows(tasks, time.UTC)

	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].Name)
	assert.Equal(t, "a", rows[1].Name)
	assert.Equal(t, "2024/1/1 0:00:00", rows[1].UpdatedAt)
	// input is not touched
	assert.Equal(t, "2024-01-01T00:00:00Z", tasks[1].UpdatedAt)
}

func TestSectionView_SingleTask(t *testing.T) {
	f := NewFormatter(time.UTC, time.Minute)
	defer f.Close()

	view := f.Section(1, status.SectionFinished, []status.Task{{Name: "a", UpdatedAt: "2024-01-01T00:00:00Z"}})

	assert.False(t, view.Placeholder())
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "a", view.Rows[0].Name)
	assert.NotEmpty(t, view.Rows[0].UpdatedAt)
	assert.NotEqual(t, "2024-01-01T00:00:00Z", view.Rows[0].UpdatedAt)
}

func TestSectionView_Placeholder(t *testing.T) {
	f := NewFormatter(time.UTC, time.Minute)
	defer f.Close()

	view := f.Section(0, status.SectionRunning, []status.Task{})

	assert.True(t, view.Placeholder())
	assert.Equal(t, status.SectionRunning, view.Name)
}

func TestFormatter_MemoizedPerVersion(t *testing.T) {
	f := NewFormatter(time.UTC, time.Minute)
	defer f.Close()

	first := f.Section(1, status.SectionError, []status.Task{{Name: "one", UpdatedAt: "2024-01-01T00:00:00Z"}})
	same := f.Section(1, status.SectionError, []status.Task{{Name: "other", UpdatedAt: "2024-01-01T00:00:00Z"}})
	next := f.Section(2, status.SectionError, []status.Task{{Name: "other", UpdatedAt: "2024-01-01T00:00:00Z"}})

	assert.Equal(t, "one", first.Rows[0].Name)
	assert.Equal(t, "one", same.Rows[0].Name)
	assert.Equal(t, "other", next.Rows[0].Name)
}
