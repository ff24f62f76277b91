package intervals

import (
	"time"

	"github.com/julianstephens/stridelog/internal/constants"
)

// HistoryRange covers the last 30 days ending on now's date
func HistoryRange(now time.Time) DateRange {
	return DateRange{
		Oldest: now.AddDate(0, 0, -constants.IntervalsHistoryDays).Format(constants.DateFormat),
		Newest: now.Format(constants.DateFormat),
	}
}

// CurrentWeek returns the Sunday to Saturday window containing now
func CurrentWeek(now time.Time) DateRange {
	sunday := now.AddDate(0, 0, -int(now.Weekday()))
	return DateRange{
		Oldest: sunday.Format(constants.DateFormat),
		Newest: sunday.AddDate(0, 0, 6).Format(constants.DateFormat),
	}
}
