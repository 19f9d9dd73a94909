package status

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrUnknownSection is returned for names outside the four sections, or
// for clear requests against a section that cannot be cleared.
var ErrUnknownSection = errors.New("unknown section")

// AllSections returns the sections in display order
func AllSections() []Section {
	return []Section{SectionError, SectionFinished, SectionRunning, SectionPending}
}

// ClearableSections returns the sections that expose a bulk clear
func ClearableSections() []Section {
	return []Section{SectionError, SectionFinished}
}

// ParseSection converts a raw name into a Section
func ParseSection(name string) (Section, error) {
	for _, s := range AllSections() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// Clearable reports whether the section can be cleared
func (s Section) Clearable() bool {
	return s == SectionError || s == SectionFinished
}

func (s Section) String() string {
	return string(s)
}

// Empty returns a snapshot with every section present and empty
func Empty() Status {
	return Status{
		Error:    []Task{},
		Finished: []Task{},
		Running:  []Task{},
		Pending:  []Task{},
	}
}

// Tasks returns the ordered tasks for a section
func (s Status) Tasks(section Section) []Task {
	switch section {
	case SectionError:
		return s.Error
	case SectionFinished:
		return s.Finished
	case SectionRunning:
		return s.Running
	case SectionPending:
		return s.Pending
	}
	return nil
}

// Entries returns every section with its tasks in display order
func (s Status) Entries() []Entry {
	entries := make([]Entry, 0, 4)
	for _, section := range AllSections() {
		entries = append(entries, Entry{Section: section, Tasks: s.Tasks(section)})
	}
	return entries
}

// normalize replaces missing sections with empty ones
func (s Status) normalize() Status {
	if s.Error == nil {
		s.Error = []Task{}
	}
	if s.Finished == nil {
		s.Finished = []Task{}
	}
	if s.Running == nil {
		s.Running = []Task{}
	}
	if s.Pending == nil {
		s.Pending = []Task{}
	}
	return s
}

// UnmarshalJSON keeps the all-sections-present invariant for decoded values
func (s *Status) UnmarshalJSON(data []byte) error {
	type plain Status
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Status(p).normalize()
	return nil
}

// Decode parses a status response body
func Decode(r io.Reader) (Status, error) {
	var s Status
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Empty(), fmt.Errorf("failed to decode status: %w", err)
	}
	return s, nil
}
