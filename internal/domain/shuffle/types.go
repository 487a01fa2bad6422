package shuffle

// Plan is the randomized order in which albums are moved to the head.
type Plan []string

// Options controls a single run.
type Options struct {
	// DryRun computes the plan without moving anything.
	DryRun bool `mapstructure:"dryRun"`
}

// Result describes a completed run.
type Result struct {
	RunID  string `json:"runId"`
	Tracks int    `json:"tracks"`
	Plan   Plan   `json:"plan"`
	Moves  int    `json:"moves"`
	DryRun bool   `json:"dryRun"`
}
