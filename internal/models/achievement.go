package models

import "time"

// Achievement status values on the prestasi table.
const (
	AchievementSubmitted = "submitted"
	AchievementVerified  = "verified"
	AchievementRejected  = "rejected"
)

// Achievement represents one row of the prestasi table.
type Achievement struct {
	ID                 string     `db:"id" json:"id"`
	NISSiswa           string     `db:"nis_siswa" json:"nis_siswa"`
	KelasSnapshot      *string    `db:"kelas_snapshot" json:"kelas_snapshot,omitempty"`
	PencatatID         string     `db:"pencatat_id" json:"pencatat_id"`
	Judul              string     `db:"judul" json:"judul"`
	Kategori           string     `db:"kategori" json:"kategori"`
	Tingkat            *string    `db:"tingkat" json:"tingkat,omitempty"`
	Poin               int        `db:"poin" json:"poin"`
	TanggalPrestasi    time.Time  `db:"tanggal_prestasi" json:"tanggal_prestasi"`
	Bukti              *string    `db:"bukti" json:"bukti,omitempty"`
	PemberiPenghargaan *string    `db:"pemberi_penghargaan" json:"pemberi_penghargaan,omitempty"`
	Status             string     `db:"status" json:"status"`
	VerifikatorID      *string    `db:"verifikator_id" json:"verifikator_id,omitempty"`
	VerifiedAt         *time.Time `db:"verified_at" json:"verified_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// AchievementFilter narrows achievement listings.
type AchievementFilter struct {
	NIS      string
	Kelas    string
	Status   string
	Kategori string
	Tingkat  string
	Search   string
	Page     int
	Limit    int
}

// AchievementTopStudent is one row of the top-points leaderboard.
type AchievementTopStudent struct {
	NIS       string `db:"nis_siswa" json:"nis"`
	Nama      string `db:"nama" json:"nama"`
	TotalPoin int    `db:"total_poin" json:"total_poin"`
	Jumlah    int    `db:"jumlah" json:"jumlah"`
}

// AchievementStats aggregates scoped achievement figures.
type AchievementStats struct {
	Total       int                     `json:"total"`
	PerStatus   map[string]int          `json:"per_status"`
	PerKategori map[string]int          `json:"per_kategori"`
	TopStudents []AchievementTopStudent `json:"top_siswa"`
	Recent      []Achievement           `json:"terbaru"`
}
