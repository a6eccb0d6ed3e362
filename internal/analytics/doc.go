// Package analytics turns cleaned ridership data into reporting artifacts:
// a markdown weekly summary, per-line weekly passenger forecasts with
// prediction bands, and a derived weekly series for the Premetro, whose
// ridership is estimated from dispatch counts rather than measured at
// turnstiles.
package analytics
