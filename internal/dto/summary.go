package dto

import (
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

// ViolationEntry is one violation line inside a student summary. Times are
// serialized in the school's local timezone.
type ViolationEntry struct {
	ID            string  `json:"id"`
	Kategori      string  `json:"kategori"`
	Jenis         string  `json:"jenis"`
	Status        string  `json:"status"`
	StatusDisplay string  `json:"status_display"`
	Waktu         *string `json:"waktu"`
	Tempat        string  `json:"tempat"`
	Detail        string  `json:"detail"`
	Catatan       *string `json:"catatan_pembinaan"`
	TindakLanjut  *string `json:"tindak_lanjut"`
	CreatedAt     *string `json:"created_at"`
	IsResolved    bool    `json:"is_resolved"`
}

// StudentSummary is the per-student discipline snapshot.
type StudentSummary struct {
	NIS                string                  `json:"nis"`
	Nama               string                  `json:"nama"`
	Kelas              string                  `json:"kelas"`
	Angkatan           string                  `json:"angkatan"`
	LatestViolation    *ViolationEntry         `json:"latest_violation"`
	ActiveCounts       models.TierCounts       `json:"active_counts"`
	EffectiveCounts    models.EscalationCounts `json:"effective_counts"`
	Violations         []ViolationEntry        `json:"violations"`
	Recommendations    []string                `json:"recommendations"`
	StatusLevel        string                  `json:"status_level"`
	StatusLabel        string                  `json:"status_label"`
	CanClear           bool                    `json:"can_clear"`
	DetailRestricted   bool                    `json:"detail_restricted"`
	ActiveCountsHidden bool                    `json:"active_counts_hidden"`
}

// CounselingRequest is the payload for counseling actions on a student.
type CounselingRequest struct {
	Status  string `json:"status"`
	Catatan string `json:"catatan_pembinaan"`
}

// CounselingResult reports the outcome of a counseling action.
type CounselingResult struct {
	Updated int             `json:"updated"`
	Summary *StudentSummary `json:"summary"`
}
