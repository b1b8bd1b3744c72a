package postgres

import (
	"context"
	"database/sql"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"
)

const membershipSelect = `
SELECT ms.id, ms.user_id, ms.name, ms.start_date, ms.end_date, ms.price::float8, ms.status,
       ms.created_at, ms.updated_at, u.name, u.email
FROM memberships ms
JOIN users u ON u.id = ms.user_id`

// membershipRepository implements repository.MembershipRepository on PostgreSQL.
type membershipRepository struct {
	db *sql.DB
}

func NewMembershipRepository(db *sql.DB) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

func scanMembership(row rowScanner) (*domain.Membership, error) {
	var m domain.Membership
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.StartDate, &m.EndDate, &m.Price, &m.Status,
		&m.CreatedAt, &m.UpdatedAt, &m.UserName, &m.UserEmail)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *membershipRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	memberships := []domain.Membership{}
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		memberships = append(memberships, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return memberships, nil
}

func (r *membershipRepository) FindAll(ctx context.Context) ([]domain.Membership, error) {
	return r.list(ctx, "postgres.Membership.FindAll", membershipSelect+" ORDER BY ms.created_at DESC, ms.id DESC")
}

func (r *membershipRepository) FindByID(ctx context.Context, id int64) (*domain.Membership, error) {
	const op = "postgres.Membership.FindByID"

	m, err := scanMembership(r.db.QueryRowContext(ctx, membershipSelect+" WHERE ms.id = $1", id))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return m, nil
}

func (r *membershipRepository) FindByUser(ctx context.Context, userID int64) ([]domain.Membership, error) {
	return r.list(ctx, "postgres.Membership.FindByUser",
		membershipSelect+" WHERE ms.user_id = $1 ORDER BY ms.created_at DESC, ms.id DESC", userID)
}

// GetActiveMembership picks the active membership with the latest end date.
// It returns repository.ErrNotFound when the user has none.
func (r *membershipRepository) GetActiveMembership(ctx context.Context, userID int64) (*domain.Membership, error) {
	const op = "postgres.Membership.GetActiveMembership"

	m, err := scanMembership(r.db.QueryRowContext(ctx,
		membershipSelect+" WHERE ms.user_id = $1 AND ms.status = 'active' ORDER BY ms.end_date DESC, ms.id DESC LIMIT 1",
		userID))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return m, nil
}

func (r *membershipRepository) Create(ctx context.Context, membership *domain.Membership) (int64, error) {
	const op = "postgres.Membership.Create"

	status := membership.Status
	if status == "" {
		status = domain.MembershipActive
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO memberships (user_id, name, start_date, end_date, price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		membership.UserID, membership.Name, membership.StartDate.Time, membership.EndDate.Time,
		membership.Price, string(status),
	).Scan(&id)
	if err != nil {
		return 0, wrapErr(op, err)
	}
	return id, nil
}

func (r *membershipRepository) Update(ctx context.Context, id int64, patch domain.MembershipPatch) (bool, error) {
	const op = "postgres.Membership.Update"

	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.StartDate != nil {
		b.set("start_date", patch.StartDate.Time)
	}
	if patch.EndDate != nil {
		b.set("end_date", patch.EndDate.Time)
	}
	if patch.Price != nil {
		b.set("price", *patch.Price)
	}
	if patch.Status != nil {
		b.set("status", string(*patch.Status))
	}
	if b.empty() {
		return false, nil
	}

	query, args := b.build("memberships", id, true)
	res, err := r.db.ExecContext(ctx, query, args...)
	return execAffected(res, err, op)
}

func (r *membershipRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "postgres.Membership.Delete"

	res, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE id = $1`, id)
	return execAffected(res, err, op)
}

// GetStats counts memberships and sums the price of active ones as revenue.
func (r *membershipRepository) GetStats(ctx context.Context) (domain.MembershipStats, error) {
	const op = "postgres.Membership.GetStats"

	var s domain.MembershipStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'active'),
		       COUNT(*) FILTER (WHERE status = 'expired'),
		       COALESCE(SUM(price) FILTER (WHERE status = 'active'), 0)::float8
		FROM memberships`,
	).Scan(&s.TotalMemberships, &s.ActiveMemberships, &s.ExpiredMemberships, &s.TotalRevenue)
	if err != nil {
		return domain.MembershipStats{}, wrapErr(op, err)
	}
	return s, nil
}
