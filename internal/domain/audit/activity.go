package audit

import (
	"context"
	"fmt"
	"time"
)

// ActivityEntry is one row of the merged timeline. Kind tells which source it
// came from: audit, session, or job.
type ActivityEntry struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	ActorID   string    `json:"actorId,omitempty"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

// Activity merges audit events, login sessions, and background job runs into
// a single date-descending timeline. Actor filters audit and session rows;
// job runs have no actor and are kept unless an actor filter is set.
func (s *Service) Activity(ctx context.Context, actorID string, from, to time.Time, limit, offset int) ([]ActivityEntry, error) {
	query := `
    SELECT kind, id, actor, summary, created_at FROM (
      SELECT 'audit' AS kind, id::text, COALESCE(actor_user_id::text, '') AS actor,
             action || ' ' || entity_type AS summary, created_at
      FROM audit_events
      UNION ALL
      SELECT 'session', id::text, user_id::text, 'signed in', created_at
      FROM sessions
      UNION ALL
      SELECT 'job', id::text, '', job_type || ' ' || status, started_at
      FROM job_runs
    ) activity
    WHERE created_at >= $1 AND created_at < $2`
	args := []any{from, to}
	if actorID != "" {
		args = append(args, actorID)
		query += fmt.Sprintf(" AND (actor = $%d OR kind = 'job')", len(args))
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var entry ActivityEntry
		if err := rows.Scan(&entry.Kind, &entry.ID, &entry.ActorID, &entry.Summary, &entry.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
