package library

// OutcomeKind represents the terminal result of one track download.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeSkipped
	OutcomeFailed
)

// String returns the string representation of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reason codes attached to skipped and failed outcomes.
const (
	ReasonAlreadyExists = "already_exists"
	ReasonNoMatch       = "no_match"
	ReasonFetchError    = "fetch_or_transcode_error"
	ReasonResolveError  = "resolve_error"
	ReasonSearchError   = "search_error"
	ReasonCancelled     = "cancelled"
)

// Outcome is the result of one track download.
type Outcome struct {
	Kind   OutcomeKind
	Path   string // Output path, set on success and skip
	Reason string // Reason code, set on skip and failure
	Err    error  // Underlying error, if any
}

// Success returns a successful outcome.
func Success(path string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Path: path}
}

// Skipped returns an outcome for a track that is already on disk.
func Skipped(path string) Outcome {
	return Outcome{Kind: OutcomeSkipped, Path: path, Reason: ReasonAlreadyExists}
}

// Failed returns a failed outcome with the given reason code.
func Failed(reason string, err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason, Err: err}
}
