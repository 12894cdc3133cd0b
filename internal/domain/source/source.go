// Package source provides the media source candidate entity.
package source

// Candidate is a media item returned by a search, with its reported duration.
type Candidate struct {
	ID       string  // Media source (video) ID
	Title    string  // Title as reported by the search
	Duration float64 // Reported duration in seconds
}

// DurationRatio returns candidate duration divided by the reference duration.
// Returns false when the reference duration is not positive.
func (c Candidate) DurationRatio(referenceSeconds int) (float64, bool) {
	if referenceSeconds <= 0 {
		return 0, false
	}
	return c.Duration / float64(referenceSeconds), true
}
