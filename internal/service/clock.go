package service

import "time"

// nowUTC is the service layer's clock, swapped in tests.
var nowUTC = func() time.Time {
	return time.Now().UTC()
}

// metricDate formats a time as the UTC day key used by the daily
// metrics table.
func metricDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
