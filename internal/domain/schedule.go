package domain

import "time"

// NextOccurrence returns the first date strictly after from on which a
// recurring income source is expected to pay out. Month days beyond the end
// of a month collapse to that month's last day.
func NextOccurrence(frequency Frequency, days []int, from time.Time) time.Time {
	if len(days) == 0 {
		return from
	}

	switch frequency {
	case FrequencyWeekly:
		return nextWeekday(from, days[0])
	case FrequencyBiweekly:
		first := nextMonthDay(from, days[0])
		second := nextMonthDay(from, days[1%len(days)])
		if second.Before(first) {
			return second
		}
		return first
	default:
		return nextMonthDay(from, days[0])
	}
}

func nextWeekday(from time.Time, weekday int) time.Time {
	date := midnight(from).AddDate(0, 0, 1)
	for int(date.Weekday()) != weekday {
		date = date.AddDate(0, 0, 1)
	}

	return date
}

func nextMonthDay(from time.Time, day int) time.Time {
	base := midnight(from)

	candidate := monthDay(base.Year(), base.Month(), day, base.Location())
	if candidate.After(base) {
		return candidate
	}

	next := base.AddDate(0, 1, 0)
	return monthDay(next.Year(), next.Month(), day, base.Location())
}

func monthDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := daysInMonth(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
