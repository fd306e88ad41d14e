package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/user"
)

const userColumns = `id, name, email, role, avatar, password_hash, bio, phone, address,
	department, expertise, student_number, enrollment_year, created_at, updated_at, last_login`

type userRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	Role           string    `db:"role"`
	Avatar         string    `db:"avatar"`
	PasswordHash   []byte    `db:"password_hash"`
	Bio            string    `db:"bio"`
	Phone          string    `db:"phone"`
	Address        string    `db:"address"`
	Department     string    `db:"department"`
	Expertise      string    `db:"expertise"`
	StudentNumber  string    `db:"student_number"`
	EnrollmentYear string    `db:"enrollment_year"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	LastLogin      time.Time `db:"last_login"`
}

func newUserRow(usr user.User) userRow {
	return userRow{
		ID:             usr.ID,
		Name:           usr.Name,
		Email:          usr.Email,
		Role:           usr.Role,
		Avatar:         usr.Avatar,
		PasswordHash:   usr.PasswordHash,
		Bio:            usr.Bio,
		Phone:          usr.Phone,
		Address:        usr.Address,
		Department:     usr.Department,
		Expertise:      usr.Expertise,
		StudentNumber:  usr.StudentNumber,
		EnrollmentYear: usr.EnrollmentYear,
		CreatedAt:      usr.CreatedAt,
		UpdatedAt:      usr.UpdatedAt,
		LastLogin:      usr.LastLogin,
	}
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		Role:           r.Role,
		Avatar:         r.Avatar,
		PasswordHash:   r.PasswordHash,
		Bio:            r.Bio,
		Phone:          r.Phone,
		Address:        r.Address,
		Department:     r.Department,
		Expertise:      r.Expertise,
		StudentNumber:  r.StudentNumber,
		EnrollmentYear: r.EnrollmentYear,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		LastLogin:      r.LastLogin,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...user.User) error {
	query := `SELECT COUNT(*) FROM "user" WHERE email = ?`
	args := []interface{}{email}

	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		query += ` AND id NOT IN (?)`
		args = append(args, ids)

		var err error
		query, args, err = sqlx.In(query, args...)
		if err != nil {
			return errors.Wrap(err, "checking email uniqueness")
		}
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()

	query := `
		INSERT INTO "user" (` + userColumns + `)
		VALUES (:id, :name, :email, :role, :avatar, :password_hash, :bio, :phone, :address,
			:department, :expertise, :student_number, :enrollment_year, :created_at, :updated_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, query, newUserRow(usr)); err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE `
	var arg interface{}
	if filter.ID != "" {
		query += `id = $1`
		arg = filter.ID
	} else {
		query += `email = $1`
		arg = filter.Email
	}

	var row userRow
	if err := repo.db.GetContext(ctx, &row, query, arg); err != nil {
		return user.User{}, trapLookupErr(err, user.ErrNotFound, "getting user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter, limit, offset int) ([]user.User, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where += ` AND (name ILIKE ? OR email ILIKE ?)`
		args = append(args, pattern, pattern)
	}
	if filter.Role != "" {
		where += ` AND role = ?`
		args = append(args, filter.Role)
	}

	var total int
	countQuery := repo.db.Rebind(`SELECT COUNT(*) FROM "user"` + where)
	if err := repo.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting users")
	}

	query := repo.db.Rebind(`SELECT ` + userColumns + ` FROM "user"` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "filtering users")
	}

	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toUser())
	}
	return users, total, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	query := `
		UPDATE "user" SET
			name = :name, email = :email, role = :role, avatar = :avatar,
			password_hash = :password_hash, bio = :bio, phone = :phone, address = :address,
			department = :department, expertise = :expertise,
			student_number = :student_number, enrollment_year = :enrollment_year,
			updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, newUserRow(usr))
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (repo *userRepository) CountUsers(ctx context.Context, role string) (int, error) {
	query := `SELECT COUNT(*) FROM "user"`
	args := []interface{}{}
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting users")
	}
	return count, nil
}

func (repo *userRepository) UserGrowth(ctx context.Context, since time.Time) ([]core.TrendPoint, error) {
	query := `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date, COUNT(*) AS count
		FROM "user"
		WHERE created_at >= $1
		GROUP BY 1
		ORDER BY 1`

	var points []core.TrendPoint
	if err := repo.db.SelectContext(ctx, &points, query, since); err != nil {
		return nil, errors.Wrap(err, "querying user growth")
	}
	return points, nil
}
