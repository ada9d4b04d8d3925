// Package dashboard groups monitoring data into per-day chart buckets.
package dashboard

import (
	"strings"
	"time"

	"github.com/edvin/cdcadmin/internal/model"
)

// Days is the number of buckets in a chart window, today included.
const Days = 7

// DayBucket holds the totals of one calendar day.
type DayBucket struct {
	Date       string `json:"date"`
	Label      string `json:"label"`
	Replicated int64  `json:"replicated"`
	Synced     int64  `json:"synced"`
	Errors     int64  `json:"errors"`
	Events     int    `json:"events"`
}

// WindowStart returns midnight of the oldest day in the window ending on
// now's day in loc.
func WindowStart(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day()-(Days-1), 0, 0, 0, 0, loc)
}

// Aggregate buckets samples and events by calendar day in loc, oldest day
// first. There are always exactly Days buckets; data outside the window is
// ignored. Error-level events add to the day's error count.
func Aggregate(now time.Time, loc *time.Location, samples []model.MetricSample, events []model.MonitoringEvent) []DayBucket {
	if loc == nil {
		loc = time.Local
	}
	start := WindowStart(now, loc)

	buckets := make([]DayBucket, Days)
	index := make(map[string]int, Days)
	for i := range buckets {
		day := time.Date(start.Year(), start.Month(), start.Day()+i, 0, 0, 0, 0, loc)
		key := day.Format(time.DateOnly)
		buckets[i] = DayBucket{Date: key, Label: day.Format("Mon")}
		index[key] = i
	}

	for _, s := range samples {
		i, ok := index[s.Timestamp.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		buckets[i].Replicated += s.Replicated
		buckets[i].Synced += s.Synced
		buckets[i].Errors += s.Errors
	}

	for _, e := range events {
		i, ok := index[e.Timestamp.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		buckets[i].Events++
		if strings.EqualFold(e.Level, model.LevelError) {
			buckets[i].Errors++
		}
	}

	return buckets
}

// Totals sums a set of buckets.
func Totals(buckets []DayBucket) DayBucket {
	var t DayBucket
	for _, b := range buckets {
		t.Replicated += b.Replicated
		t.Synced += b.Synced
		t.Errors += b.Errors
		t.Events += b.Events
	}
	return t
}
