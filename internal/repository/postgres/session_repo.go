package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"
)

// completed_count only counts ids that belong to the session's plan.
const sessionSelect = `
SELECT s.id, s.member_id, s.trainer_id, s.workout_plan_id, s.session_date,
       COALESCE(to_char(s.start_time, 'HH24:MI'), ''), COALESCE(to_char(s.end_time, 'HH24:MI'), ''),
       s.status, s.completed_exercises, s.created_at, s.updated_at,
       m.name, m.email, m.phone,
       COALESCE(t.name, ''), COALESCE(t.email, ''),
       COALESCE(wp.name, ''), COALESCE(wp.description, ''),
       (SELECT COUNT(*) FROM exercises e WHERE e.workout_plan_id = s.workout_plan_id) AS total_exercises,
       (SELECT COUNT(*) FROM exercises e
         WHERE e.workout_plan_id = s.workout_plan_id
           AND s.completed_exercises @> to_jsonb(e.id)) AS completed_count
FROM sessions s
JOIN users m ON m.id = s.member_id
LEFT JOIN users t ON t.id = s.trainer_id
LEFT JOIN workout_plans wp ON wp.id = s.workout_plan_id`

const sessionOrder = " ORDER BY s.session_date DESC, s.start_time DESC NULLS LAST, s.id DESC"

// sessionRepository implements repository.SessionRepository on PostgreSQL.
type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s                 domain.Session
		trainerID, planID sql.NullInt64
		completed         []byte
	)
	err := row.Scan(&s.ID, &s.MemberID, &trainerID, &planID, &s.Date,
		&s.StartTime, &s.EndTime,
		&s.Status, &completed, &s.CreatedAt, &s.UpdatedAt,
		&s.MemberName, &s.MemberEmail, &s.MemberPhone,
		&s.TrainerName, &s.TrainerEmail,
		&s.WorkoutPlanName, &s.WorkoutDescription,
		&s.TotalExercises, &s.CompletedCount)
	if err != nil {
		return nil, err
	}

	s.TrainerID = int64Ptr(trainerID)
	s.WorkoutPlanID = int64Ptr(planID)
	if s.CompletedExercises, err = decodeIDs(completed); err != nil {
		return nil, fmt.Errorf("decode completed exercises: %w", err)
	}
	s.CompletionRate = domain.CompletionRate(s.CompletedCount, s.TotalExercises)
	return &s, nil
}

func (r *sessionRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return sessions, nil
}

// FindAll lists sessions matching filter, latest first.
func (r *sessionRepository) FindAll(ctx context.Context, filter repository.SessionFilter) ([]domain.Session, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.MemberID != nil {
		add("s.member_id = $%d", *filter.MemberID)
	}
	if filter.TrainerID != nil {
		add("s.trainer_id = $%d", *filter.TrainerID)
	}
	if filter.Status != nil {
		add("s.status = $%d", string(*filter.Status))
	}
	if filter.DateFrom != nil {
		add("s.session_date >= $%d", filter.DateFrom.Time)
	}
	if filter.DateTo != nil {
		add("s.session_date <= $%d", filter.DateTo.Time)
	}

	query := sessionSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	return r.list(ctx, "postgres.Session.FindAll", query+sessionOrder, args...)
}

// FindByID returns the session with its plan's exercises attached.
func (r *sessionRepository) FindByID(ctx context.Context, id int64) (*domain.Session, error) {
	const op = "postgres.Session.FindByID"

	s, err := scanSession(r.db.QueryRowContext(ctx, sessionSelect+" WHERE s.id = $1", id))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	if s.WorkoutPlanID != nil {
		s.Exercises, err = queryExercises(ctx, r.db, op,
			exerciseSelect+" WHERE e.workout_plan_id = $1 ORDER BY e.id", *s.WorkoutPlanID)
		if err != nil {
			return nil, err
		}
		s.TotalExercises = int64(len(s.Exercises))
		s.CompletedCount = domain.CountCompletedInPlan(s.CompletedExercises, s.Exercises)
		s.CompletionRate = domain.CompletionRate(s.CompletedCount, s.TotalExercises)
	}
	return s, nil
}

// FindMissed lists sessions still scheduled for a day that has already passed.
func (r *sessionRepository) FindMissed(ctx context.Context) ([]domain.Session, error) {
	return r.list(ctx, "postgres.Session.FindMissed",
		sessionSelect+" WHERE s.status = 'scheduled' AND s.session_date < CURRENT_DATE"+sessionOrder)
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) (int64, error) {
	const op = "postgres.Session.Create"

	status := session.Status
	if status == "" {
		status = domain.SessionScheduled
	}
	completed, err := encodeIDs(session.CompletedExercises)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO sessions (member_id, trainer_id, workout_plan_id, session_date, start_time, end_time, status, completed_exercises)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::time, NULLIF($6, '')::time, $7, $8::jsonb)
		RETURNING id`,
		session.MemberID, nullableID(session.TrainerID), nullableID(session.WorkoutPlanID), session.Date.Time,
		session.StartTime, session.EndTime, string(status), completed,
	).Scan(&id)
	if err != nil {
		return 0, wrapErr(op, err)
	}
	return id, nil
}

func (r *sessionRepository) Update(ctx context.Context, id int64, patch domain.SessionPatch) (bool, error) {
	const op = "postgres.Session.Update"

	var b updateBuilder
	if patch.Date != nil {
		b.set("session_date", patch.Date.Time)
	}
	if patch.StartTime != nil {
		b.setExpr("start_time", "NULLIF(%s, '')::time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		b.setExpr("end_time", "NULLIF(%s, '')::time", *patch.EndTime)
	}
	if patch.Status != nil {
		b.set("status", string(*patch.Status))
	}
	if patch.TrainerID != nil {
		b.set("trainer_id", *patch.TrainerID)
	}
	if patch.WorkoutPlanID != nil {
		b.set("workout_plan_id", *patch.WorkoutPlanID)
	}
	if patch.CompletedExercises != nil {
		completed, err := encodeIDs(*patch.CompletedExercises)
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		b.setExpr("completed_exercises", "%s::jsonb", completed)
	}
	if b.empty() {
		return false, nil
	}

	query, args := b.build("sessions", id, true)
	res, err := r.db.ExecContext(ctx, query, args...)
	return execAffected(res, err, op)
}

func (r *sessionRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "postgres.Session.Delete"

	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return execAffected(res, err, op)
}

// GetMemberStats counts one member's sessions per status.
func (r *sessionRepository) GetMemberStats(ctx context.Context, memberID int64) (domain.SessionStats, error) {
	const op = "postgres.Session.GetMemberStats"

	var s domain.SessionStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status = 'missed'),
		       COUNT(*) FILTER (WHERE status = 'scheduled')
		FROM sessions
		WHERE member_id = $1`, memberID,
	).Scan(&s.Total, &s.Completed, &s.Missed, &s.Scheduled)
	if err != nil {
		return domain.SessionStats{}, wrapErr(op, err)
	}
	return s, nil
}

// GetStats counts all sessions per status.
func (r *sessionRepository) GetStats(ctx context.Context) (domain.SessionStats, error) {
	const op = "postgres.Session.GetStats"

	var s domain.SessionStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status = 'missed'),
		       COUNT(*) FILTER (WHERE status = 'scheduled')
		FROM sessions`,
	).Scan(&s.Total, &s.Completed, &s.Missed, &s.Scheduled)
	if err != nil {
		return domain.SessionStats{}, wrapErr(op, err)
	}
	return s, nil
}
