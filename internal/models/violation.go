package models

import "time"

// Violation status values on the pelanggaran table.
const (
	ViolationReported  = "reported"
	ViolationProcessed = "processed"
	ViolationResolved  = "resolved"
)

// Severity tiers on the jenis_pelanggaran kategori column.
const (
	SeverityLight    = "ringan"
	SeverityModerate = "sedang"
	SeveritySevere   = "berat"
	SeverityNone     = "none"
)

// StatusLabel translates a violation status into its display label.
func StatusLabel(status string) string {
	switch status {
	case ViolationReported:
		return "Dilaporkan"
	case ViolationProcessed:
		return "Diproses"
	case ViolationResolved:
		return "Selesai"
	default:
		return status
	}
}

// SeverityLabel translates an escalated status level into its display label.
func SeverityLabel(level string) string {
	switch level {
	case SeverityLight:
		return "Pelanggaran Ringan"
	case SeverityModerate:
		return "Pelanggaran Sedang"
	case SeveritySevere:
		return "Pelanggaran Berat"
	default:
		return "Tidak ada pelanggaran"
	}
}

// ViolationType represents one row of the jenis_pelanggaran master table.
type ViolationType struct {
	ID        string    `db:"id" json:"id"`
	Nama      string    `db:"nama_pelanggaran" json:"nama_pelanggaran"`
	Kategori  string    `db:"kategori" json:"kategori"`
	Poin      int       `db:"poin" json:"poin"`
	Deskripsi *string   `db:"deskripsi" json:"deskripsi,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Violation represents one row of the pelanggaran table. KelasSnapshot
// freezes the class name at reporting time so later class moves do not
// rewrite history.
type Violation struct {
	ID             string    `db:"id" json:"id"`
	NISSiswa       string    `db:"nis_siswa" json:"nis_siswa"`
	KelasSnapshot  *string   `db:"kelas_snapshot" json:"kelas_snapshot,omitempty"`
	JenisID        string    `db:"jenis_pelanggaran_id" json:"jenis_pelanggaran_id"`
	PelaporID      string    `db:"pelapor_id" json:"pelapor_id"`
	WaktuKejadian  time.Time `db:"waktu_kejadian" json:"waktu_kejadian"`
	Tempat         string    `db:"tempat" json:"tempat"`
	DetailKejadian string    `db:"detail_kejadian" json:"detail_kejadian"`
	BuktiFoto      *string   `db:"bukti_foto" json:"bukti_foto,omitempty"`
	Status         string    `db:"status" json:"status"`
	Catatan        *string   `db:"catatan_pembinaan" json:"catatan_pembinaan,omitempty"`
	TindakLanjut   *string   `db:"tindak_lanjut" json:"tindak_lanjut,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ViolationRow is the joined projection behind summaries and listings.
// Kelas coalesces the violation snapshot with the student's current class.
type ViolationRow struct {
	ID           string     `db:"id"`
	NIS          string     `db:"nis"`
	Status       string     `db:"status"`
	Waktu        *time.Time `db:"waktu"`
	CreatedAt    time.Time  `db:"created_at"`
	Tempat       string     `db:"tempat"`
	Detail       string     `db:"detail"`
	Catatan      *string    `db:"catatan"`
	TindakLanjut *string    `db:"tindak_lanjut"`
	Jenis        string     `db:"jenis"`
	Kategori     string     `db:"kategori"`
	Nama         string     `db:"nama"`
	Kelas        string     `db:"kelas"`
	Angkatan     string     `db:"angkatan"`
}

// DayCount is one day bucket of the dashboard trend chart.
type DayCount struct {
	Tanggal string `db:"tanggal" json:"tanggal"`
	Jumlah  int    `db:"jumlah" json:"jumlah"`
}

// ViolationFilter narrows violation listings.
type ViolationFilter struct {
	NIS      string
	Status   string
	Kategori string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// TierCounts holds raw per-tier active violation counts.
type TierCounts struct {
	Ringan int `json:"ringan"`
	Sedang int `json:"sedang"`
	Berat  int `json:"berat"`
}

// Total returns the sum across tiers.
func (t TierCounts) Total() int {
	return t.Ringan + t.Sedang + t.Berat
}

// EscalationCounts extends raw counts with carry arithmetic results.
type EscalationCounts struct {
	Ringan          int `json:"ringan"`
	Sedang          int `json:"sedang"`
	Berat           int `json:"berat"`
	RinganRemainder int `json:"ringan_remainder"`
	SedangEquiv     int `json:"sedang_equivalent"`
	SedangRemainder int `json:"sedang_remainder"`
	BeratEquiv      int `json:"berat_equivalent"`
}
