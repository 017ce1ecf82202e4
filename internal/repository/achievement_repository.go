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

// AchievementRepository persists prestasi rows.
type AchievementRepository struct {
	db *sqlx.DB
}

// NewAchievementRepository builds an AchievementRepository.
func NewAchievementRepository(db *sqlx.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// scopeAchievementClause mirrors the violation scope on the prestasi table,
// matching the recorder column instead of the reporter.
func scopeAchievementClause(scope models.AccessScope, alias string, args []interface{}) (string, []interface{}) {
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
		parts = append(parts, fmt.Sprintf("%s.pencatat_id = $%d", alias, len(args)))
	}
	if len(parts) == 0 {
		return "FALSE", args
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// Create inserts a new achievement.
func (r *AchievementRepository) Create(ctx context.Context, a *models.Achievement) error {
	query := `
		INSERT INTO prestasi (
			id, nis_siswa, kelas_snapshot, pencatat_id, judul, kategori, tingkat,
			poin, tanggal_prestasi, bukti, pemberi_penghargaan, status,
			verifikator_id, verified_at, created_at, updated_at
		) VALUES (
			:id, :nis_siswa, :kelas_snapshot, :pencatat_id, :judul, :kategori, :tingkat,
			:poin, :tanggal_prestasi, :bukti, :pemberi_penghargaan, :status,
			:verifikator_id, :verified_at, :created_at, :updated_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("insert prestasi: %w", err)
	}
	return nil
}

// GetByID fetches one achievement, or nil when absent.
func (r *AchievementRepository) GetByID(ctx context.Context, id string) (*models.Achievement, error) {
	var a models.Achievement
	err := r.db.GetContext(ctx, &a, `SELECT * FROM prestasi WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get prestasi %s: %w", id, err)
	}
	return &a, nil
}

// List returns scoped achievements matching the filter, newest first.
func (r *AchievementRepository) List(ctx context.Context, scope models.AccessScope, filter models.AchievementFilter) ([]models.Achievement, int, error) {
	if scope.Empty() {
		return []models.Achievement{}, 0, nil
	}

	var conditions []string
	var args []interface{}

	if clause, a := scopeAchievementClause(scope, "p", args); clause != "" {
		conditions = append(conditions, clause)
		args = a
	}
	if filter.NIS != "" {
		args = append(args, filter.NIS)
		conditions = append(conditions, fmt.Sprintf("p.nis_siswa = $%d", len(args)))
	}
	if filter.Kelas != "" {
		args = append(args, filter.Kelas)
		conditions = append(conditions, fmt.Sprintf("p.kelas_snapshot = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if filter.Kategori != "" {
		args = append(args, filter.Kategori)
		conditions = append(conditions, fmt.Sprintf("p.kategori = $%d", len(args)))
	}
	if filter.Tingkat != "" {
		args = append(args, filter.Tingkat)
		conditions = append(conditions, fmt.Sprintf("p.tingkat = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(p.judul ILIKE $%d OR p.pemberi_penghargaan ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM prestasi p"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count prestasi: %w", err)
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
		"SELECT p.* FROM prestasi p%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d",
		where, limitPos, offsetPos,
	)

	achievements := []models.Achievement{}
	if err := r.db.SelectContext(ctx, &achievements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list prestasi: %w", err)
	}
	return achievements, total, nil
}

// Update rewrites the editable fields of an achievement.
func (r *AchievementRepository) Update(ctx context.Context, a *models.Achievement) error {
	query := `
		UPDATE prestasi SET
			judul = :judul,
			kategori = :kategori,
			tingkat = :tingkat,
			poin = :poin,
			tanggal_prestasi = :tanggal_prestasi,
			bukti = :bukti,
			pemberi_penghargaan = :pemberi_penghargaan,
			status = :status,
			verifikator_id = :verifikator_id,
			verified_at = :verified_at,
			updated_at = :updated_at
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return fmt.Errorf("update prestasi: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetVerification records a verification decision. Statuses outside the
// decided pair clear the verifier stamp, returning the row to an
// unverified state.
func (r *AchievementRepository) SetVerification(ctx context.Context, id, status, verifikatorID string, at time.Time) error {
	var res sql.Result
	var err error
	if status == models.AchievementVerified || status == models.AchievementRejected {
		res, err = r.db.ExecContext(ctx,
			`UPDATE prestasi SET status = $1, verifikator_id = $2, verified_at = $3, updated_at = $3 WHERE id = $4`,
			status, verifikatorID, at, id,
		)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE prestasi SET status = $1, verifikator_id = NULL, verified_at = NULL, updated_at = $2 WHERE id = $3`,
			status, at, id,
		)
	}
	if err != nil {
		return fmt.Errorf("verify prestasi: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an achievement row.
func (r *AchievementRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prestasi WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete prestasi: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountAll counts every achievement row.
func (r *AchievementRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM prestasi`); err != nil {
		return 0, fmt.Errorf("count prestasi: %w", err)
	}
	return total, nil
}

// CountPerDaySince buckets achievements per calendar day from the cutoff on.
func (r *AchievementRepository) CountPerDaySince(ctx context.Context, cutoff time.Time) ([]models.DayCount, error) {
	counts := []models.DayCount{}
	err := r.db.SelectContext(ctx, &counts, `
		SELECT TO_CHAR(created_at::date, 'YYYY-MM-DD') AS tanggal, COUNT(*) AS jumlah
		FROM prestasi
		WHERE created_at >= $1
		GROUP BY created_at::date
		ORDER BY created_at::date`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("count prestasi per day: %w", err)
	}
	return counts, nil
}

// CountByStudent counts a student's achievement rows.
func (r *AchievementRepository) CountByStudent(ctx context.Context, nis string) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM prestasi WHERE nis_siswa = $1`, nis)
	if err != nil {
		return 0, fmt.Errorf("count prestasi by siswa: %w", err)
	}
	return total, nil
}

// Stats aggregates scoped achievement figures: status and category
// breakdowns, a verified-points leaderboard, and the newest records.
func (r *AchievementRepository) Stats(ctx context.Context, scope models.AccessScope, topN, recentN int) (*models.AchievementStats, error) {
	stats := &models.AchievementStats{
		PerStatus:   map[string]int{},
		PerKategori: map[string]int{},
		TopStudents: []models.AchievementTopStudent{},
		Recent:      []models.Achievement{},
	}
	if scope.Empty() {
		return stats, nil
	}

	var args []interface{}
	where := ""
	if clause, a := scopeAchievementClause(scope, "p", args); clause != "" {
		where = " WHERE " + clause
		args = a
	}

	statusRows := []struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &statusRows,
		"SELECT p.status, COUNT(*) AS total FROM prestasi p"+where+" GROUP BY p.status", args...); err != nil {
		return nil, fmt.Errorf("count prestasi by status: %w", err)
	}
	for _, row := range statusRows {
		stats.PerStatus[row.Status] = row.Total
		stats.Total += row.Total
	}

	categoryRows := []struct {
		Kategori string `db:"kategori"`
		Total    int    `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &categoryRows,
		"SELECT p.kategori, COUNT(*) AS total FROM prestasi p"+where+" GROUP BY p.kategori", args...); err != nil {
		return nil, fmt.Errorf("count prestasi by kategori: %w", err)
	}
	for _, row := range categoryRows {
		stats.PerKategori[row.Kategori] = row.Total
	}

	if topN <= 0 {
		topN = 5
	}
	topArgs := append(append([]interface{}{}, args...), models.AchievementVerified, topN)
	verifiedCond := fmt.Sprintf("p.status = $%d", len(topArgs)-1)
	topWhere := where
	if topWhere == "" {
		topWhere = " WHERE " + verifiedCond
	} else {
		topWhere += " AND " + verifiedCond
	}
	topQuery := fmt.Sprintf(`
		SELECT p.nis_siswa, s.nama, SUM(p.poin) AS total_poin, COUNT(*) AS jumlah
		FROM prestasi p
		JOIN siswa s ON s.nis = p.nis_siswa%s
		GROUP BY p.nis_siswa, s.nama
		ORDER BY total_poin DESC
		LIMIT $%d`, topWhere, len(topArgs))
	if err := r.db.SelectContext(ctx, &stats.TopStudents, topQuery, topArgs...); err != nil {
		return nil, fmt.Errorf("rank prestasi points: %w", err)
	}

	if recentN <= 0 {
		recentN = 5
	}
	recentArgs := append(append([]interface{}{}, args...), recentN)
	recentQuery := fmt.Sprintf(
		"SELECT p.* FROM prestasi p%s ORDER BY p.created_at DESC LIMIT $%d",
		where, len(recentArgs),
	)
	if err := r.db.SelectContext(ctx, &stats.Recent, recentQuery, recentArgs...); err != nil {
		return nil, fmt.Errorf("list recent prestasi: %w", err)
	}
	return stats, nil
}
