package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nexushr/hrms-backend-go/internal/domain/attendance"
	"github.com/nexushr/hrms-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `a.id, a.employee_id, a.date, a.sessions, a.total_hours, a.overtime, a.status, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row, withEmployee bool) (attendance.Attendance, error) {
	var a attendance.Attendance
	var raw []byte
	dest := []any{&a.ID, &a.EmployeeID, &a.Date, &raw, &a.TotalHours, &a.Overtime, &a.Status, &a.CreatedAt, &a.UpdatedAt}
	if withEmployee {
		dest = append(dest, &a.EmployeeName, &a.EmployeePosition)
	}
	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}
	if err := json.Unmarshal(raw, &a.Sessions); err != nil {
		return attendance.Attendance{}, fmt.Errorf("%w: attendance %s: %v", attendance.ErrInvalidSession, a.ID, err)
	}
	if err := a.Sessions.Validate(); err != nil {
		return attendance.Attendance{}, fmt.Errorf("attendance %s: %w", a.ID, err)
	}
	return a, nil
}

func marshalSessions(ss attendance.Sessions) ([]byte, error) {
	if err := ss.Validate(); err != nil {
		return nil, err
	}
	if ss == nil {
		ss = attendance.Sessions{}
	}
	return json.Marshal(ss)
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		a.ID = id.String()
	}
	if a.Status == "" {
		a.Status = attendance.StatusPresent
	}
	sessions, err := marshalSessions(a.Sessions)
	if err != nil {
		return attendance.Attendance{}, err
	}

	query := `
		INSERT INTO attendances (id, employee_id, date, sessions, total_hours, overtime, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.Date, sessions, a.TotalHours, a.Overtime, a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uq_attendances_employee_date") {
			return attendance.Attendance{}, attendance.ErrAttendanceAlreadyExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return a, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, e.first_name || ' ' || e.last_name, e.position
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	a, err := scanAttendance(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance %s: %w", id, err)
	}
	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2
		FOR UPDATE
	`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance for employee %s: %w", employeeID, err)
	}
	return a, nil
}

// UpdateSessions implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateSessions(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	sessions, err := marshalSessions(a.Sessions)
	if err != nil {
		return err
	}

	query := `
		UPDATE attendances
		SET sessions = $1, total_hours = $2, overtime = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, sessions, a.TotalHours, a.Overtime, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance sessions: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// UpdateStatus implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateStatus(ctx context.Context, id string, status attendance.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE attendances SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update attendance status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, dr attendance.DateRange) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	upper := "a.date < $3"
	if dr.Inclusive {
		upper = "a.date <= $3"
	}
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date >= $2 AND ` + upper + `
		ORDER BY a.date
	`

	rows, err := q.Query(ctx, query, employeeID, dr.Start, dr.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	return collectAttendance(rows, false)
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, e.first_name || ' ' || e.last_name, e.position
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1
		ORDER BY e.first_name, e.last_name
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	return collectAttendance(rows, true)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		start, _ := time.Parse("2006-01-02", *filter.StartDate)
		args = append(args, start)
		argIdx++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIdx))
		end, _ := time.Parse("2006-01-02", *filter.EndDate)
		args = append(args, end)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendances a ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, e.first_name || ' ' || e.last_name, e.position
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		%s
		ORDER BY a.date DESC, e.first_name
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records, err := collectAttendance(rows, true)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func collectAttendance(rows pgx.Rows, withEmployee bool) ([]attendance.Attendance, error) {
	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows, withEmployee)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListOpenBefore(ctx context.Context, before time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	// Only the last session of a day may be open.
	query := `
		SELECT ` + attendanceColumns + `, e.first_name || ' ' || e.last_name, e.position
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date < $1
		  AND jsonb_array_length(a.sessions) > 0
		  AND (a.sessions -> -1 -> 'clockOut') IS NULL
		ORDER BY a.date, e.first_name
	`

	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendance: %w", err)
	}
	defer rows.Close()

	return collectAttendance(rows, true)
}
