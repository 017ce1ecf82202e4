package models

import "time"

// Class represents one row of the kelas table.
type Class struct {
	ID           string    `db:"id" json:"id"`
	NamaKelas    string    `db:"nama_kelas" json:"nama_kelas"`
	Tingkat      string    `db:"tingkat" json:"tingkat"`
	WaliKelasNIP *string   `db:"wali_kelas_nip" json:"wali_kelas_nip,omitempty"`
	TahunAjaran  string    `db:"tahun_ajaran" json:"tahun_ajaran"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AcademicYear represents one row of the tahun_ajaran table.
type AcademicYear struct {
	ID        string    `db:"id" json:"id"`
	Tahun     string    `db:"tahun" json:"tahun"`
	Semester  string    `db:"semester" json:"semester"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
