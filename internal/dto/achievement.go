package dto

import "time"

// CreateAchievementRequest is the payload for recording an achievement.
type CreateAchievementRequest struct {
	NISSiswa           string    `json:"nis_siswa" validate:"required"`
	Judul              string    `json:"judul" validate:"required"`
	Kategori           string    `json:"kategori" validate:"required"`
	Tingkat            *string   `json:"tingkat,omitempty"`
	Poin               int       `json:"poin" validate:"gte=0"`
	TanggalPrestasi    time.Time `json:"tanggal_prestasi" validate:"required"`
	Bukti              *string   `json:"bukti,omitempty"`
	PemberiPenghargaan *string   `json:"pemberi_penghargaan,omitempty"`
}

// UpdateAchievementRequest edits an achievement's content.
type UpdateAchievementRequest struct {
	Judul              *string    `json:"judul,omitempty"`
	Kategori           *string    `json:"kategori,omitempty"`
	Tingkat            *string    `json:"tingkat,omitempty"`
	Poin               *int       `json:"poin,omitempty"`
	TanggalPrestasi    *time.Time `json:"tanggal_prestasi,omitempty"`
	Bukti              *string    `json:"bukti,omitempty"`
	PemberiPenghargaan *string    `json:"pemberi_penghargaan,omitempty"`
}

// VerifyAchievementRequest records a verification decision. Reverting to
// submitted withdraws an earlier decision.
type VerifyAchievementRequest struct {
	Status string `json:"status" validate:"required,oneof=submitted verified rejected"`
}
