package models

import "time"

// Guardianship represents a delegated student assignment (perwalian)
// granting a teacher visibility over a student outside their own class.
type Guardianship struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	NISSiswa  string    `db:"nis_siswa" json:"nis_siswa"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// GuardianAccess marks a teacher as eligible to hold guardianships.
type GuardianAccess struct {
	UserID string `db:"user_id" json:"user_id"`
}

// GuardianshipStat aggregates guardianship load per teacher.
type GuardianshipStat struct {
	TeacherID    string `db:"teacher_id" json:"teacher_id"`
	TeacherName  string `db:"teacher_name" json:"teacher_name"`
	StudentCount int    `db:"student_count" json:"student_count"`
}

// ConfigKeyGuardianshipPeriod gates whether teachers may add students
// to their guardianship roster.
const ConfigKeyGuardianshipPeriod = "perwalian_period_active"

// AppConfig is a key-value configuration row.
type AppConfig struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}
