package status

// Task is a single backup job as reported by the backup server
type Task struct {
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at"`
}

// Section is one of the four task lifecycle stages
type Section string

const (
	SectionError    Section = "error"
	SectionFinished Section = "finished"
	SectionRunning  Section = "running"
	SectionPending  Section = "pending"
)

// Status is the full snapshot of every section. All four fields are
// always present; a nil slice never leaves this package.
type Status struct {
	Error    []Task `json:"error"`
	Finished []Task `json:"finished"`
	Running  []Task `json:"running"`
	Pending  []Task `json:"pending"`
}

// Entry pairs a section with its tasks for ordered iteration
type Entry struct {
	Section Section `json:"section"`
	Tasks   []Task  `json:"tasks"`
}

// ClearResult is the body returned by the clear endpoints
type ClearResult struct {
	Message string `json:"message"`
}
