package postgres

import (
	"context"
	"database/sql"

	"gymtracker/gym-api/internal/domain"
	"gymtracker/gym-api/internal/repository"
)

const userSelect = `
SELECT u.id, u.name, u.email, u.password, r.name, u.date_of_birth, u.phone, u.profile_pic,
       u.is_active, u.created_at, u.updated_at,
       (SELECT COUNT(*) FROM sessions s WHERE s.member_id = u.id AND s.status = 'scheduled') AS active_sessions
FROM users u
JOIN roles r ON r.id = u.role_id`

// userRepository implements repository.UserRepository on PostgreSQL.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a user repository over an open pool.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u   domain.User
		dob sql.Null[domain.Date]
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &dob, &u.Phone, &u.ProfilePic,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.ActiveSessions)
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		d := dob.V
		u.DateOfBirth = &d
	}
	return &u, nil
}

// FindAll lists users, newest first, optionally restricted to one role.
func (r *userRepository) FindAll(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	const op = "postgres.User.FindAll"

	query := userSelect
	var args []any
	if filter.Role != "" {
		query += " WHERE r.name = $1"
		args = append(args, string(filter.Role))
	}
	query += " ORDER BY u.created_at DESC, u.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return users, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const op = "postgres.User.FindByID"

	u, err := scanUser(r.db.QueryRowContext(ctx, userSelect+" WHERE u.id = $1", id))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// FindByEmail looks a user up by the unique login email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const op = "postgres.User.FindByEmail"

	u, err := scanUser(r.db.QueryRowContext(ctx, userSelect+" WHERE u.email = $1", email))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	return u, nil
}

// Create inserts the user and returns the generated id. Role defaults to member.
func (r *userRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	const op = "postgres.User.Create"

	role := user.Role
	if role == "" {
		role = domain.RoleMember
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, role_id, date_of_birth, phone, profile_pic, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		user.Name, user.Email, user.PasswordHash, role.ID(), nullableDate(user.DateOfBirth),
		user.Phone, user.ProfilePic, user.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, wrapErr(op, err)
	}
	return id, nil
}

// Update applies only the fields present in patch.
func (r *userRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (bool, error) {
	const op = "postgres.User.Update"

	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Email != nil {
		b.set("email", *patch.Email)
	}
	if patch.Role != nil {
		b.set("role_id", patch.Role.ID())
	}
	if patch.DateOfBirth != nil {
		b.set("date_of_birth", patch.DateOfBirth.Time)
	}
	if patch.Phone != nil {
		b.set("phone", *patch.Phone)
	}
	if patch.ProfilePic != nil {
		b.set("profile_pic", *patch.ProfilePic)
	}
	if patch.IsActive != nil {
		b.set("is_active", *patch.IsActive)
	}
	if b.empty() {
		return false, nil
	}

	query, args := b.build("users", id, true)
	res, err := r.db.ExecContext(ctx, query, args...)
	return execAffected(res, err, op)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) (bool, error) {
	const op = "postgres.User.UpdatePassword"

	res, err := r.db.ExecContext(ctx, `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	return execAffected(res, err, op)
}

func (r *userRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const op = "postgres.User.Delete"

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return execAffected(res, err, op)
}

// GetStats counts users per role plus the active ones.
func (r *userRepository) GetStats(ctx context.Context) (domain.UserStats, error) {
	const op = "postgres.User.GetStats"

	var s domain.UserStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE r.name = 'member'),
		       COUNT(*) FILTER (WHERE r.name = 'trainer'),
		       COUNT(*) FILTER (WHERE r.name = 'admin'),
		       COUNT(*) FILTER (WHERE u.is_active)
		FROM users u
		JOIN roles r ON r.id = u.role_id`,
	).Scan(&s.TotalUsers, &s.TotalMembers, &s.TotalTrainers, &s.TotalAdmins, &s.ActiveUsers)
	if err != nil {
		return domain.UserStats{}, wrapErr(op, err)
	}
	return s, nil
}
