package domain

// RunSummary represents the outcome of one generator invocation
type RunSummary struct {
	RunID    string
	Profile  string
	Baseline string
	Seed     uint64
	Files    []GeneratedFile
}

// GeneratedFile is one synthesized document written to a sink
type GeneratedFile struct {
	Period Period
	Source string
	Output string
	Unit   string
}

func (s *RunSummary) Total() int {
	return len(s.Files)
}
