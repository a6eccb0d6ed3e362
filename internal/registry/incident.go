package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Incident is one service disruption report.
type Incident struct {
	IncidentID  string
	ReportedAt  time.Time
	Source      string
	Description string
	Category    string
	Severity    string
	Line        string
	Station     string
	TargetTeam  string
	RawOutput   string // upstream payload, verbatim, for auditing
}

// Target teams incidents can be routed to.
const (
	TeamInfrastructure    = "infrastructure_maintenance"
	TeamOperationsControl = "operations_control"
	TeamManualReview      = "manual_review"
)

// RouteTeam resolves the team responsible for an incident. Category rules
// run first, then a high severity pulls the incident to operations control
// regardless of category. With nothing to go on, the current assignment
// stands, or manual review when there is none.
func RouteTeam(category, severity, current string) string {
	team := current
	if team == "" {
		team = TeamManualReview
	}

	switch strings.ToLower(strings.TrimSpace(category)) {
	case "infrastructure", "mechanical":
		team = TeamInfrastructure
	case "overcrowding", "capacity":
		team = TeamOperationsControl
	}

	if strings.ToLower(strings.TrimSpace(severity)) == "high" {
		team = TeamOperationsControl
	}
	return team
}

// Routed returns the incident with its target team resolved by RouteTeam.
func (i Incident) Routed() Incident {
	i.TargetTeam = RouteTeam(i.Category, i.Severity, i.TargetTeam)
	return i
}

// InsertIncident stores one incident. A missing IncidentID gets a UUID and
// a missing ReportedAt is filled from the clock.
func (s *Store) InsertIncident(ctx context.Context, inc Incident) error {
	return s.InsertIncidents(ctx, []Incident{inc})
}

// InsertIncidents stores incidents atomically.
func (s *Store) InsertIncidents(ctx context.Context, incidents []Incident) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin incident insert: %w", err)
	}
	defer tx.Rollback()

	for _, inc := range incidents {
		if inc.IncidentID == "" {
			inc.IncidentID = uuid.NewString()
		}
		if inc.ReportedAt.IsZero() {
			inc.ReportedAt = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO incidents (incident_id, reported_at, source, description,
				category, severity, line, station, target_team, raw_output)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inc.IncidentID, inc.ReportedAt.UTC().Format(time.RFC3339), inc.Source,
			inc.Description, inc.Category, inc.Severity, inc.Line, inc.Station,
			inc.TargetTeam, inc.RawOutput,
		)
		if err != nil {
			return fmt.Errorf("insert incident %s: %w", inc.IncidentID, err)
		}
	}
	return tx.Commit()
}

// Incidents returns every stored incident, oldest first.
func (s *Store) Incidents(ctx context.Context) ([]Incident, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT incident_id, reported_at, source, description, category,
			severity, line, station, target_team, raw_output
		FROM incidents ORDER BY reported_at, incident_id`)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()

	var incidents []Incident
	for rows.Next() {
		var inc Incident
		var reportedAt string
		if err := rows.Scan(&inc.IncidentID, &reportedAt, &inc.Source, &inc.Description,
			&inc.Category, &inc.Severity, &inc.Line, &inc.Station,
			&inc.TargetTeam, &inc.RawOutput); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		inc.ReportedAt, _ = time.Parse(time.RFC3339, reportedAt)
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

// DemoIncidents builds the two placeholder incidents used to exercise the
// incident log end to end.
func DemoIncidents(runDate string, now time.Time) []Incident {
	reported := now.UTC()
	return []Incident{
		{
			IncidentID:  fmt.Sprintf("INC-%s-0001", runDate),
			ReportedAt:  reported,
			Source:      "demo_feed",
			Description: "15-minute delay on Line B at Carlos Pellegrini due to a mechanical issue.",
			Category:    "infrastructure",
			Severity:    "medium",
			Line:        "B",
			Station:     "Carlos Pellegrini",
			TargetTeam:  TeamInfrastructure,
		},
		{
			IncidentID:  fmt.Sprintf("INC-%s-0002", runDate),
			ReportedAt:  reported,
			Source:      "demo_feed",
			Description: "Overcrowding reported on Line D at 9 de Julio during peak hour.",
			Category:    "overcrowding",
			Severity:    "medium",
			Line:        "D",
			Station:     "9 de Julio",
			TargetTeam:  TeamOperationsControl,
		},
	}
}
