package domain

// Source tells where an audited record came from.
type Source int

const (
	// SourceCache marks a record served from the local cache.
	SourceCache Source = iota
	// SourceRemote marks a record fetched from the remote service during this run.
	SourceRemote
)

func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Outcome is the terminal status of an audit run.
type Outcome int

const (
	// OutcomeNoRemoteData means nothing needed fetching: the input was empty or fully cached.
	OutcomeNoRemoteData Outcome = iota
	// OutcomeComplete means every uncached coordinate was fetched successfully.
	OutcomeComplete
	// OutcomePartial means a batch failed and the result holds only what was accumulated before.
	OutcomePartial
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoRemoteData:
		return "no-remote-data"
	case OutcomeComplete:
		return "complete"
	case OutcomePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// AuditedRecord is a record tagged with its source.
type AuditedRecord struct {
	Record VulnerabilityRecord
	Source Source
}

// AuditPlan summarizes how an audit will be carried out.
type AuditPlan struct {
	Total     int
	CacheHits int
	Uncached  int
	Batches   int
}

// BatchProgress identifies one remote batch of a run.
type BatchProgress struct {
	// Index is 1-based.
	Index int
	Total int
	Size  int
}

// AuditResult is the merged outcome of an audit run.
type AuditResult struct {
	// Records holds one entry per audited coordinate in input order.
	// Coordinates of a failed or never-dispatched batch are absent.
	Records []AuditedRecord

	Outcome Outcome

	// Warnings collects non-fatal failures such as unreadable cache entries
	// or records that could not be written back.
	Warnings []error

	CacheHits         int
	BatchesDispatched int
	BatchesSucceeded  int
}

// Vulnerable returns the number of records with at least one vulnerability.
func (r *AuditResult) Vulnerable() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Record.Vulnerable() {
			n++
		}
	}
	return n
}
