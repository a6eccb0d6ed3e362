// Package anomaly scores bucketed ridership series against a trailing
// rolling baseline. PrepareSeries aggregates raw turnstile rows into one
// observation per (bucket, station) pair; DetectAnomalies compares each
// observation with the rolling mean and population standard deviation of
// its own station's recent history and labels it spike, drop or normal.
//
// The baseline is local by construction. A station whose traffic collapses
// for a week establishes a new normal within a window, which is the wanted
// behavior for alerting on sudden operational events rather than seasonal
// drift.
//
// Both operations are pure transforms over immutable inputs.
package anomaly
