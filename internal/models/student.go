package models

import "time"

// Student status values on the siswa table.
const (
	StudentActive      = "aktif"
	StudentGraduated   = "lulus"
	StudentTransferred = "pindah"
	StudentExpelled    = "dikeluarkan"
	StudentDeleted     = "deleted"
)

// ValidStudentStatuses lists statuses assignable through the API.
// "deleted" is reserved for soft deletion.
var ValidStudentStatuses = []string{
	StudentActive,
	StudentGraduated,
	StudentTransferred,
	StudentExpelled,
}

// IsValidStudentStatus reports whether status can be assigned directly.
func IsValidStudentStatus(status string) bool {
	for _, s := range ValidStudentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Student represents one row of the siswa table. IDKelas stores the class
// name the student currently belongs to.
type Student struct {
	NIS          string    `db:"nis" json:"nis"`
	Nama         string    `db:"nama" json:"nama"`
	IDKelas      string    `db:"id_kelas" json:"id_kelas"`
	Angkatan     string    `db:"angkatan" json:"angkatan"`
	JenisKelamin string    `db:"jenis_kelamin" json:"jenis_kelamin"`
	Aktif        bool      `db:"aktif" json:"aktif"`
	StatusSiswa  string    `db:"status_siswa" json:"status_siswa"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Search   string
	IDKelas  string
	Angkatan string
	Status   string
	Page     int
	Limit    int
}

// ClassHistory records which class a student occupied in a given year.
type ClassHistory struct {
	ID          string    `db:"id" json:"id"`
	NIS         string    `db:"nis" json:"nis"`
	TahunAjaran string    `db:"tahun_ajaran" json:"tahun_ajaran"`
	Kelas       string    `db:"kelas" json:"kelas"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
