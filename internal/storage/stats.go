package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate counts about all stored history.
type DataStats struct {
	TotalSessions    int64                 `json:"total_sessions"`
	TotalDefinitions int64                 `json:"total_definitions"`
	TotalExercises   int64                 `json:"total_exercises"`
	TotalSets        int64                 `json:"total_sets"`
	EarliestSession  *time.Time            `json:"earliest_session"`
	LatestSession    *time.Time            `json:"latest_session"`
	SessionsByName   []DefinitionUsageStat `json:"sessions_by_definition"`
}

// DefinitionUsageStat counts sessions recorded against one definition.
// Sessions whose definition was deleted are grouped under an empty name.
type DefinitionUsageStat struct {
	Name          string  `json:"name"`
	Count         int64   `json:"count"`
	TotalDuration float64 `json:"total_duration_sec"`
}

// GetDataStats returns aggregate statistics for the stored history.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	tx, err := db.beginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	stats := &DataStats{}
	err = tx.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM workout_sessions),
		   (SELECT COUNT(*) FROM workout_definitions),
		   (SELECT COUNT(*) FROM exercises),
		   (SELECT COUNT(*) FROM set_records),
		   (SELECT MIN(start_time) FROM workout_sessions),
		   (SELECT MAX(start_time) FROM workout_sessions)`,
	).Scan(&stats.TotalSessions, &stats.TotalDefinitions, &stats.TotalExercises,
		&stats.TotalSets, &stats.EarliestSession, &stats.LatestSession)
	if err != nil {
		return nil, fmt.Errorf("counting rows: %w", err)
	}

	rows, err := tx.Query(ctx,
		`SELECT COALESCE(d.name, ''), COUNT(*),
		 COALESCE(SUM(EXTRACT(EPOCH FROM (s.end_time - s.start_time))), 0)::float8
		 FROM workout_sessions s
		 LEFT JOIN workout_definitions d ON d.id = s.definition_id
		 GROUP BY d.name
		 ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions by definition: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s DefinitionUsageStat
		if err := rows.Scan(&s.Name, &s.Count, &s.TotalDuration); err != nil {
			return nil, fmt.Errorf("scanning definition stat: %w", err)
		}
		stats.SessionsByName = append(stats.SessionsByName, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
