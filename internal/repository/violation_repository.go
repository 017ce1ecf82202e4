package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

// ViolationRepository persists pelanggaran rows.
type ViolationRepository struct {
	db *sqlx.DB
}

// NewViolationRepository builds a ViolationRepository.
func NewViolationRepository(db *sqlx.DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

// scopeViolationClause renders an AccessScope into a SQL condition over the
// aliased pelanggaran table. Callers must short-circuit empty scopes before
// querying; this only handles unrestricted and non-empty restricted scopes.
func scopeViolationClause(scope models.AccessScope, alias string, args []interface{}) (string, []interface{}) {
	if scope.Unrestricted {
		return "", args
	}
	var parts []string
	if len(scope.StudentIDs) > 0 {
		args = append(args, pq.Array(scope.StudentIDs))
		parts = append(parts, fmt.Sprintf("%s.nis_siswa = ANY($%d)", alias, len(args)))
	}
	if scope.ReporterID != "" {
		args = append(args, scope.ReporterID)
		parts = append(parts, fmt.Sprintf("%s.pelapor_id = $%d", alias, len(args)))
	}
	if len(parts) == 0 {
		return "FALSE", args
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// Create inserts a new violation row.
func (r *ViolationRepository) Create(ctx context.Context, v *models.Violation) error {
	query := `
		INSERT INTO pelanggaran (
			id, nis_siswa, kelas_snapshot, jenis_pelanggaran_id, pelapor_id,
			waktu_kejadian, tempat, detail_kejadian, bukti_foto, status,
			catatan_pembinaan, tindak_lanjut, created_at
		) VALUES (
			:id, :nis_siswa, :kelas_snapshot, :jenis_pelanggaran_id, :pelapor_id,
			:waktu_kejadian, :tempat, :detail_kejadian, :bukti_foto, :status,
			:catatan_pembinaan, :tindak_lanjut, :created_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, v)
	if err != nil {
		return fmt.Errorf("insert pelanggaran: %w", err)
	}
	return nil
}

// GetByID fetches a single violation, or nil when absent.
func (r *ViolationRepository) GetByID(ctx context.Context, id string) (*models.Violation, error) {
	var v models.Violation
	err := r.db.GetContext(ctx, &v, `SELECT * FROM pelanggaran WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pelanggaran %s: %w", id, err)
	}
	return &v, nil
}

// List returns scoped violations matching the filter, newest first.
func (r *ViolationRepository) List(ctx context.Context, scope models.AccessScope, filter models.ViolationFilter) ([]models.Violation, int, error) {
	if scope.Empty() {
		return []models.Violation{}, 0, nil
	}

	var conditions []string
	var args []interface{}

	if clause, a := scopeViolationClause(scope, "p", args); clause != "" {
		conditions = append(conditions, clause)
		args = a
	}
	if filter.NIS != "" {
		args = append(args, filter.NIS)
		conditions = append(conditions, fmt.Sprintf("p.nis_siswa = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.Kategori != "" {
		args = append(args, filter.Kategori)
		conditions = append(conditions, fmt.Sprintf("p.jenis_pelanggaran_id IN (SELECT id FROM jenis_pelanggaran WHERE LOWER(kategori) = LOWER($%d))", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("p.waktu_kejadian >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("p.waktu_kejadian <= $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM pelanggaran p" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count pelanggaran: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit)
	limitPos := len(args)
	args = append(args, (page-1)*limit)
	offsetPos := len(args)

	query := fmt.Sprintf(
		"SELECT p.* FROM pelanggaran p%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d",
		where, limitPos, offsetPos,
	)

	violations := []models.Violation{}
	if err := r.db.SelectContext(ctx, &violations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list pelanggaran: %w", err)
	}
	return violations, total, nil
}

// ListSummaryRows returns the joined violation rows feeding the per-student
// summaries, newest first. targetNIS narrows to one student when non-empty.
func (r *ViolationRepository) ListSummaryRows(ctx context.Context, scope models.AccessScope, targetNIS string) ([]models.ViolationRow, error) {
	if scope.Empty() {
		return []models.ViolationRow{}, nil
	}

	var conditions []string
	var args []interface{}

	if targetNIS != "" {
		args = append(args, targetNIS)
		conditions = append(conditions, fmt.Sprintf("p.nis_siswa = $%d", len(args)))
	}
	if clause, a := scopeViolationClause(scope, "p", args); clause != "" {
		conditions = append(conditions, clause)
		args = a
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
		SELECT
			p.id,
			p.nis_siswa AS nis,
			p.status,
			p.waktu_kejadian AS waktu,
			p.created_at,
			p.tempat,
			p.detail_kejadian AS detail,
			p.catatan_pembinaan AS catatan,
			p.tindak_lanjut,
			j.nama_pelanggaran AS jenis,
			j.kategori,
			s.nama,
			COALESCE(p.kelas_snapshot, s.id_kelas) AS kelas,
			s.angkatan
		FROM pelanggaran p
		JOIN siswa s ON s.nis = p.nis_siswa
		JOIN jenis_pelanggaran j ON j.id = p.jenis_pelanggaran_id` +
		where + `
		ORDER BY p.created_at DESC`

	rows := []models.ViolationRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list summary rows: %w", err)
	}
	return rows, nil
}

// ListByStudent returns every scoped violation for one student.
func (r *ViolationRepository) ListByStudent(ctx context.Context, scope models.AccessScope, nis string) ([]models.Violation, error) {
	if scope.Empty() {
		return []models.Violation{}, nil
	}

	args := []interface{}{nis}
	conditions := []string{"p.nis_siswa = $1"}
	if clause, a := scopeViolationClause(scope, "p", args); clause != "" {
		conditions = append(conditions, clause)
		args = a
	}

	query := "SELECT p.* FROM pelanggaran p WHERE " + strings.Join(conditions, " AND ") + " ORDER BY p.created_at DESC"

	violations := []models.Violation{}
	if err := r.db.SelectContext(ctx, &violations, query, args...); err != nil {
		return nil, fmt.Errorf("list pelanggaran by student: %w", err)
	}
	return violations, nil
}

// CounselingUpdate is one violation mutation produced by a counseling action.
type CounselingUpdate struct {
	ID           string
	Status       string
	Catatan      *string
	TindakLanjut string
}

// ApplyCounselingUpdates writes the given counseling mutations atomically.
func (r *ViolationRepository) ApplyCounselingUpdates(ctx context.Context, updates []CounselingUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin counseling tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range updates {
		if u.Catatan != nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE pelanggaran SET status = $1, catatan_pembinaan = $2, tindak_lanjut = $3 WHERE id = $4`,
				u.Status, *u.Catatan, u.TindakLanjut, u.ID,
			)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE pelanggaran SET status = $1, tindak_lanjut = $2 WHERE id = $3`,
				u.Status, u.TindakLanjut, u.ID,
			)
		}
		if err != nil {
			return fmt.Errorf("update pelanggaran %s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit counseling tx: %w", err)
	}
	return nil
}

// UpdateStatus sets the workflow status of one violation.
func (r *ViolationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE pelanggaran SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update pelanggaran status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Update rewrites the editable fields of a violation.
func (r *ViolationRepository) Update(ctx context.Context, v *models.Violation) error {
	query := `
		UPDATE pelanggaran SET
			jenis_pelanggaran_id = :jenis_pelanggaran_id,
			waktu_kejadian = :waktu_kejadian,
			tempat = :tempat,
			detail_kejadian = :detail_kejadian,
			bukti_foto = :bukti_foto,
			status = :status,
			catatan_pembinaan = :catatan_pembinaan,
			tindak_lanjut = :tindak_lanjut
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, v)
	if err != nil {
		return fmt.Errorf("update pelanggaran: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a violation row.
func (r *ViolationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pelanggaran WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pelanggaran: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountSince counts scoped violations created at or after the cutoff.
func (r *ViolationRepository) CountSince(ctx context.Context, scope models.AccessScope, cutoff time.Time) (int, error) {
	if scope.Empty() {
		return 0, nil
	}
	args := []interface{}{cutoff}
	query := `SELECT COUNT(*) FROM pelanggaran p WHERE p.created_at >= $1`
	if clause, a := scopeViolationClause(scope, "p", args); clause != "" {
		query += " AND " + clause
		args = a
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count recent pelanggaran: %w", err)
	}
	return total, nil
}

// CountAll counts every violation row.
func (r *ViolationRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM pelanggaran`); err != nil {
		return 0, fmt.Errorf("count pelanggaran: %w", err)
	}
	return total, nil
}

// CountByStatus groups violation counts by workflow status.
func (r *ViolationRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows := []struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS total FROM pelanggaran GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count pelanggaran by status: %w", err)
	}
	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Total
	}
	return result, nil
}

// CountByCategory groups violation counts by severity tier.
func (r *ViolationRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows := []struct {
		Kategori string `db:"kategori"`
		Total    int    `db:"total"`
	}{}
	query := `
		SELECT j.kategori, COUNT(*) AS total
		FROM pelanggaran p
		JOIN jenis_pelanggaran j ON j.id = p.jenis_pelanggaran_id
		GROUP BY j.kategori`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count pelanggaran by kategori: %w", err)
	}
	result := make(map[string]int, len(rows))
	for _, row := range rows {
		result[row.Kategori] = row.Total
	}
	return result, nil
}

// CountUnresolvedByStudent counts a student's violations that are not yet
// resolved.
func (r *ViolationRepository) CountUnresolvedByStudent(ctx context.Context, nis string) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM pelanggaran WHERE nis_siswa = $1 AND status <> $2`,
		nis, models.ViolationResolved,
	)
	if err != nil {
		return 0, fmt.Errorf("count unresolved pelanggaran: %w", err)
	}
	return total, nil
}

// CountPerDaySince buckets violation counts per calendar day from the cutoff
// onward, oldest day first.
func (r *ViolationRepository) CountPerDaySince(ctx context.Context, cutoff time.Time) ([]models.DayCount, error) {
	query := `
		SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS tanggal, COUNT(*) AS jumlah
		FROM pelanggaran
		WHERE created_at >= $1
		GROUP BY created_at::date
		ORDER BY created_at::date`
	buckets := []models.DayCount{}
	if err := r.db.SelectContext(ctx, &buckets, query, cutoff); err != nil {
		return nil, fmt.Errorf("bucket pelanggaran per day: %w", err)
	}
	return buckets, nil
}

// ListRecent returns the most recent joined violation rows visible in the
// scope.
func (r *ViolationRepository) ListRecent(ctx context.Context, scope models.AccessScope, limit int) ([]models.ViolationRow, error) {
	if scope.Empty() {
		return []models.ViolationRow{}, nil
	}
	if limit <= 0 {
		limit = 5
	}
	var args []interface{}
	where := ""
	if clause, a := scopeViolationClause(scope, "p", args); clause != "" {
		where = "\n\t\tWHERE " + clause
		args = a
	}
	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT
			p.id,
			p.nis_siswa AS nis,
			p.status,
			p.waktu_kejadian AS waktu,
			p.created_at,
			p.tempat,
			p.detail_kejadian AS detail,
			p.catatan_pembinaan AS catatan,
			p.tindak_lanjut,
			j.nama_pelanggaran AS jenis,
			j.kategori,
			s.nama,
			COALESCE(p.kelas_snapshot, s.id_kelas) AS kelas,
			s.angkatan
		FROM pelanggaran p
		JOIN siswa s ON s.nis = p.nis_siswa
		JOIN jenis_pelanggaran j ON j.id = p.jenis_pelanggaran_id%s
		ORDER BY p.created_at DESC
		LIMIT $%d`, where, len(args))
	rows := []models.ViolationRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent pelanggaran: %w", err)
	}
	return rows, nil
}
