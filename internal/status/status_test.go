package status

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	s := Empty()

	for _, entry := range s.Entries() {
		assert.NotNil(t, entry.Tasks, entry.Section)
		assert.Empty(t, entry.Tasks, entry.Section)
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":[],"finished":[],"running":[],"pending":[]}`, string(data))
}

func TestEntriesOrder(t *testing.T) {
	var sections []Section
	for _, entry := range Empty().Entries() {
		sections = append(sections, entry.Section)
	}

	assert.Equal(t, []Section{SectionError, SectionFinished, SectionRunning, SectionPending}, sections)
}

func TestDecode(t *testing.T) {
	body := `{
		"error": [],
		"finished": [
			{"name": "job1", "updated_at": "2024-03-01T10:00:00Z"},
			{"name": "job0", "updated_at": "2024-02-01T10:00:00Z"}
		],
		"running": [],
		"pending": []
	}`

	s, err := Decode(strings.NewReader(body))
	require.NoError(t, err)

	require.Len(t, s.Finished, 2)
	// server order is kept
	assert.Equal(t, "job1", s.Finished[0].Name)
	assert.Equal(t, "job0", s.Finished[1].Name)
	assert.Equal(t, "2024-03-01T10:00:00Z", s.Finished[0].UpdatedAt)
	assert.Empty(t, s.Error)
}

func TestDecodeFillsMissingSections(t *testing.T) {
	s, err := Decode(strings.NewReader(`{"running": [{"name": "nightly", "updated_at": "2024-01-01T00:00:00Z"}], "pending": null}`))
	require.NoError(t, err)

	assert.NotNil(t, s.Error)
	assert.NotNil(t, s.Finished)
	assert.NotNil(t, s.Pending)
	assert.Len(t, s.Running, 1)
	assert.Len(t, s.Entries(), 4)
}

func TestDecodeInvalid(t *testing.T) {
	s, err := Decode(strings.NewReader("something occured. check pi3!"))
	assert.Error(t, err)
	assert.Equal(t, Empty(), s)
}

func TestParseSection(t *testing.T) {
	for _, name := range []string{"error", "finished", "running", "pending"} {
		s, err := ParseSection(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.String())
	}

	_, err := ParseSection("archived")
	assert.True(t, errors.Is(err, ErrUnknownSection))
}

func TestClearable(t *testing.T) {
	assert.True(t, SectionError.Clearable())
	assert.True(t, SectionFinished.Clearable())
	assert.False(t, SectionRunning.Clearable())
	assert.False(t, SectionPending.Clearable())

	for _, s := range ClearableSections() {
		assert.True(t, s.Clearable())
	}
}

func TestTasksUnknownSection(t *testing.T) {
	assert.Nil(t, Empty().Tasks(Section("archived")))
}
