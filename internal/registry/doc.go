// Package registry persists pipeline run metadata and incident reports in
// a local SQLite database. Runs trace which cleaned file fed each ingestion
// and how many rows it carried; incidents capture service disruptions along
// with the team they were routed to. Routing is rule-based and pure, so it
// can be unit-tested and reused without the database.
package registry
