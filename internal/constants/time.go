package constants

// Date layouts. Storage and the intervals.icu API use ISO dates; races are
// typed and shown day first.
const (
	DateFormat     = "2006-01-02"
	RaceDateFormat = "02/01/2006"
)
