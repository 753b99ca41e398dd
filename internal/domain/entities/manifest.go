package entities

// Manifest is the CLI's description of one filtering run
type Manifest struct {
	// DenyList overrides the configured list location when set
	DenyList    string
	SearchPaths []string
	References  []Reference
}

// Report is the persisted result of a filtering run
type Report struct {
	DenyList    ReportDenyList
	Filtered    []Reference
	Unresolved  []Reference
	Outcomes    []Outcome
	Diagnostics []Diagnostic
	Succeeded   bool
}

// ReportDenyList summarises the list a run was filtered against
type ReportDenyList struct {
	Path    string
	Status  ListStatus
	SHA256  string
	Entries int
}
