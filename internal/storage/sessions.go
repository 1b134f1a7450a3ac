package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/liftstats/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// LoadSessions returns every stored workout session ordered by start time,
// with definitions and exercises resolved. References to deleted rows load
// as nil.
func (db *DB) LoadSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	return db.loadSessions(ctx, nil)
}

// LoadSession returns one session or ErrNotFound.
func (db *DB) LoadSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error) {
	sessions, err := db.loadSessions(ctx, &id)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNotFound
	}
	return &sessions[0], nil
}

// loadSessions loads all sessions, or only the one with the given ID.
func (db *DB) loadSessions(ctx context.Context, only *uuid.UUID) ([]models.WorkoutSession, error) {
	tx, err := db.beginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	exercises, err := loadExercises(ctx, tx)
	if err != nil {
		return nil, err
	}
	definitions, err := loadDefinitions(ctx, tx, exercises)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx,
		`SELECT id, definition_id, started, completed, start_time, end_time
		 FROM workout_sessions
		 WHERE $1::uuid IS NULL OR id = $1
		 ORDER BY start_time ASC, id ASC`, only)
	if err != nil {
		return nil, fmt.Errorf("querying workout sessions: %w", err)
	}
	var sessions []models.WorkoutSession
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			s     models.WorkoutSession
			defID uuid.NullUUID
			end   *time.Time
		)
		if err := rows.Scan(&s.ID, &defID, &s.Started, &s.Completed, &s.Start, &end); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning workout session: %w", err)
		}
		if defID.Valid {
			s.Definition = definitions[defID.UUID]
		}
		if end != nil {
			s.End = *end
		}
		index[s.ID] = len(sessions)
		sessions = append(sessions, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading workout sessions: %w", err)
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	type slot struct{ session, exercise int }
	slots := make(map[uuid.UUID]slot)

	rows, err = tx.Query(ctx,
		`SELECT es.id, es.session_id, es.exercise_id
		 FROM exercise_sessions es
		 WHERE $1::uuid IS NULL OR es.session_id = $1
		 ORDER BY es.session_id, es.position`, only)
	if err != nil {
		return nil, fmt.Errorf("querying exercise sessions: %w", err)
	}
	for rows.Next() {
		var (
			es        models.ExerciseSession
			sessionID uuid.UUID
			exID      uuid.NullUUID
		)
		if err := rows.Scan(&es.ID, &sessionID, &exID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning exercise session: %w", err)
		}
		si, ok := index[sessionID]
		if !ok {
			continue
		}
		if exID.Valid {
			es.Exercise = exercises[exID.UUID]
		}
		slots[es.ID] = slot{si, len(sessions[si].Exercises)}
		sessions[si].Exercises = append(sessions[si].Exercises, es)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading exercise sessions: %w", err)
	}

	rows, err = tx.Query(ctx,
		`SELECT sr.id, sr.exercise_session_id, sr.kind, sr.completed, sr.skipped,
		 sr.start_time, sr.end_time, sr.unit, sr.reps, sr.weight, sr.rep_measure,
		 sr.elapsed_ms, sr.distance
		 FROM set_records sr
		 JOIN exercise_sessions es ON es.id = sr.exercise_session_id
		 WHERE $1::uuid IS NULL OR es.session_id = $1
		 ORDER BY sr.exercise_session_id, sr.position`, only)
	if err != nil {
		return nil, fmt.Errorf("querying set records: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			r          models.SetRecord
			esID       uuid.UUID
			kind, unit string
			measure    string
			start, end *time.Time
			elapsedMs  int64
		)
		if err := rows.Scan(&r.ID, &esID, &kind, &r.Completed, &r.Skipped,
			&start, &end, &unit, &r.Reps, &r.Weight, &measure,
			&elapsedMs, &r.Distance); err != nil {
			return nil, fmt.Errorf("scanning set record: %w", err)
		}
		sl, ok := slots[esID]
		if !ok {
			continue
		}
		if r.Kind, err = models.ParseSetKind(kind); err != nil {
			return nil, fmt.Errorf("set record %s: %w", r.ID, err)
		}
		r.Unit = models.UnitSystem(unit)
		r.RepMeasure = models.RepMeasure(measure)
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		if start != nil {
			r.Start = *start
		}
		if end != nil {
			r.End = *end
		}
		es := &sessions[sl.session].Exercises[sl.exercise]
		es.Sets = append(es.Sets, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading set records: %w", err)
	}
	return sessions, nil
}

func loadExercises(ctx context.Context, tx pgx.Tx) (map[uuid.UUID]*models.Exercise, error) {
	rows, err := tx.Query(ctx, `SELECT id, name, muscle_group, tracking FROM exercises`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]*models.Exercise)
	for rows.Next() {
		var (
			ex           models.Exercise
			group, track string
		)
		if err := rows.Scan(&ex.ID, &ex.Name, &group, &track); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		// Unknown stored groups are kept and fall into "other" during aggregation.
		if g, err := models.ParseMuscleGroup(group); err == nil {
			ex.MuscleGroup = g
		} else {
			ex.MuscleGroup = models.MuscleGroupOther
		}
		ex.Tracking = models.TrackingMode(track)
		out[ex.ID] = &ex
	}
	return out, rows.Err()
}

func loadDefinitions(ctx context.Context, tx pgx.Tx, exercises map[uuid.UUID]*models.Exercise) (map[uuid.UUID]*models.WorkoutDefinition, error) {
	rows, err := tx.Query(ctx, `SELECT id, name FROM workout_definitions`)
	if err != nil {
		return nil, fmt.Errorf("querying workout definitions: %w", err)
	}
	out := make(map[uuid.UUID]*models.WorkoutDefinition)
	for rows.Next() {
		var def models.WorkoutDefinition
		if err := rows.Scan(&def.ID, &def.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning workout definition: %w", err)
		}
		out[def.ID] = &def
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading workout definitions: %w", err)
	}

	rows, err = tx.Query(ctx,
		`SELECT definition_id, exercise_id, sets FROM definition_exercises
		 ORDER BY definition_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying definition exercises: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			defID uuid.UUID
			exID  uuid.NullUUID
			inst  models.ExerciseInstance
		)
		if err := rows.Scan(&defID, &exID, &inst.Sets); err != nil {
			return nil, fmt.Errorf("scanning definition exercise: %w", err)
		}
		def, ok := out[defID]
		if !ok {
			continue
		}
		if exID.Valid {
			inst.Exercise = exercises[exID.UUID]
		}
		def.Exercises = append(def.Exercises, inst)
	}
	return out, rows.Err()
}

// ReplaceSessions stores sessions together with the exercises and
// definitions they reference, in one transaction. Existing sessions with the
// same ID are deleted first. Returns the number of sessions and sets written.
func (db *DB) ReplaceSessions(ctx context.Context, sessions []models.WorkoutSession) (int64, int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	exercises := make(map[uuid.UUID]*models.Exercise)
	definitions := make(map[uuid.UUID]*models.WorkoutDefinition)
	ids := make([]uuid.UUID, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		ids = append(ids, s.ID)
		if s.Definition != nil {
			definitions[s.Definition.ID] = s.Definition
			for _, inst := range s.Definition.Exercises {
				if inst.Exercise != nil {
					exercises[inst.Exercise.ID] = inst.Exercise
				}
			}
		}
		for _, es := range s.Exercises {
			if es.Exercise != nil {
				exercises[es.Exercise.ID] = es.Exercise
			}
		}
	}

	for _, ex := range exercises {
		if _, err := tx.Exec(ctx,
			`INSERT INTO exercises (id, name, muscle_group, tracking) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name,
			 muscle_group = EXCLUDED.muscle_group, tracking = EXCLUDED.tracking`,
			ex.ID, ex.Name, ex.MuscleGroup.String(), string(ex.Tracking)); err != nil {
			return 0, 0, fmt.Errorf("upserting exercise %s: %w", ex.Name, err)
		}
	}
	for _, def := range definitions {
		if _, err := tx.Exec(ctx,
			`INSERT INTO workout_definitions (id, name) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
			def.ID, def.Name); err != nil {
			return 0, 0, fmt.Errorf("upserting definition %s: %w", def.Name, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM definition_exercises WHERE definition_id = $1`, def.ID); err != nil {
			return 0, 0, fmt.Errorf("clearing definition %s: %w", def.Name, err)
		}
		for pos, inst := range def.Exercises {
			sets := inst.Sets
			if sets == nil {
				sets = []models.SetTemplate{}
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO definition_exercises (definition_id, position, exercise_id, sets)
				 VALUES ($1, $2, $3, $4)`,
				def.ID, pos, exerciseID(inst.Exercise), sets); err != nil {
				return 0, 0, fmt.Errorf("inserting definition exercise: %w", err)
			}
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM workout_sessions WHERE id = ANY($1)`, ids); err != nil {
		return 0, 0, fmt.Errorf("deleting existing sessions: %w", err)
	}

	var sessionRows, esRows, setRows [][]any
	for _, s := range sessions {
		var defID any
		if s.Definition != nil {
			defID = s.Definition.ID
		}
		sessionRows = append(sessionRows, []any{s.ID, defID, s.Started, s.Completed, s.Start, nullTime(s.End)})
		for pos, es := range s.Exercises {
			esRows = append(esRows, []any{es.ID, s.ID, pos, exerciseID(es.Exercise)})
			for setPos, r := range es.Sets {
				setRows = append(setRows, []any{
					r.ID, es.ID, setPos, string(r.Kind), r.Completed, r.Skipped,
					nullTime(r.Start), nullTime(r.End), string(r.Unit), r.Reps, r.Weight,
					string(r.RepMeasure), r.Elapsed.Milliseconds(), r.Distance,
				})
			}
		}
	}

	inserted, err := tx.CopyFrom(ctx, pgx.Identifier{"workout_sessions"},
		[]string{"id", "definition_id", "started", "completed", "start_time", "end_time"},
		pgx.CopyFromRows(sessionRows))
	if err != nil {
		return 0, 0, fmt.Errorf("copying workout sessions: %w", err)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"exercise_sessions"},
		[]string{"id", "session_id", "position", "exercise_id"},
		pgx.CopyFromRows(esRows)); err != nil {
		return 0, 0, fmt.Errorf("copying exercise sessions: %w", err)
	}
	sets, err := tx.CopyFrom(ctx, pgx.Identifier{"set_records"},
		[]string{"id", "exercise_session_id", "position", "kind", "completed", "skipped",
			"start_time", "end_time", "unit", "reps", "weight", "rep_measure", "elapsed_ms", "distance"},
		pgx.CopyFromRows(setRows))
	if err != nil {
		return 0, 0, fmt.Errorf("copying set records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("committing sessions: %w", err)
	}
	return inserted, sets, nil
}

// DeleteSession removes a session and its sets.
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM workout_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func exerciseID(ex *models.Exercise) any {
	if ex == nil {
		return nil
	}
	return ex.ID
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
