// Package episodes assigns pontificate-week episode numbers.
package episodes

import (
	"fmt"
	"sort"
	"time"

	"iglesia/internal/core"
	"iglesia/internal/logger"
)

// PontificateStart is the first day of the pontificate. Week 1 runs from
// this date; each following week starts seven days later.
var PontificateStart = time.Date(2025, time.May, 8, 0, 0, 0, 0, time.UTC)

// Week returns the 1-based pontificate week for a date. Dates before the
// pontificate start land in week 1.
func Week(date time.Time) int {
	days := int(date.Sub(PontificateStart).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days/7 + 1
}

// WeekForDate parses a YYYY-MM-DD date string and returns its week.
func WeekForDate(date string) (int, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("invalid episode date %q: %w", date, err)
	}
	return Week(t), nil
}

// Number assigns week, sub-index and the "{week}.{sub}" label to every
// episode, renumbering the full set each run. Episodes are processed per
// language in (date, slug) order so the numbering is deterministic; the
// sub-index restarts at 1 on every week change.
func Number(eps []core.Episode) []core.Episode {
	sort.SliceStable(eps, func(i, j int) bool {
		if eps[i].Language != eps[j].Language {
			return eps[i].Language < eps[j].Language
		}
		if eps[i].Date != eps[j].Date {
			return eps[i].Date < eps[j].Date
		}
		return eps[i].Slug < eps[j].Slug
	})

	type key struct {
		lang string
		week int
	}
	counts := make(map[key]int)
	for i := range eps {
		week, err := WeekForDate(eps[i].Date)
		if err != nil {
			logger.Warn("episode without a valid date left unnumbered",
				"slug", eps[i].Slug, "date", eps[i].Date)
			continue
		}
		k := key{eps[i].Language, week}
		counts[k]++
		eps[i].Week = week
		eps[i].SubIndex = counts[k]
		eps[i].EpisodeNum = fmt.Sprintf("%d.%d", week, counts[k])
	}
	return eps
}
