package service

import (
	"strings"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

// NormalizeSeverity folds a raw kategori value into one of the known tiers.
// Unknown or empty values count as ringan so a misconfigured master record
// never drops a violation from the tally.
func NormalizeSeverity(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch normalized {
	case models.SeverityLight, models.SeverityModerate, models.SeveritySevere:
		return normalized
	default:
		return models.SeverityLight
	}
}

// CalculateEffectiveCounts converts raw tier counts into escalated
// equivalents: every 10 ringan count as one sedang, and every 5 sedang
// equivalents count as one berat.
func CalculateEffectiveCounts(active models.TierCounts) models.EscalationCounts {
	sedangEquiv := active.Sedang + active.Ringan/10
	beratEquiv := active.Berat + sedangEquiv/5
	return models.EscalationCounts{
		Ringan:          active.Ringan,
		Sedang:          active.Sedang,
		Berat:           active.Berat,
		RinganRemainder: active.Ringan % 10,
		SedangEquiv:     sedangEquiv,
		SedangRemainder: sedangEquiv % 5,
		BeratEquiv:      beratEquiv,
	}
}

// DetermineStatusLevel picks the dominant tier from escalated counts.
func DetermineStatusLevel(counts models.EscalationCounts) string {
	switch {
	case counts.BeratEquiv > 0:
		return models.SeveritySevere
	case counts.SedangEquiv > 0:
		return models.SeverityModerate
	case counts.Ringan > 0:
		return models.SeverityLight
	default:
		return models.SeverityNone
	}
}

func ringanRecommendations(ringan int) []string {
	if ringan <= 0 {
		return nil
	}
	switch {
	case ringan < 5:
		return []string{"Pembinaan guru mata pelajaran dengan catatan atau dokumentasi."}
	case ringan == 5:
		return []string{"laporan ke wali kelas dan pembinaan wali kelas tahap I."}
	case ringan <= 10:
		return []string{"pembinaan wali kelas tahap II dan pembinaan BK."}
	default:
		return []string{"pembinaan BK serta surat pernyataan diketahui orang tua."}
	}
}

func sedangRecommendations(sedangEquiv int) []string {
	if sedangEquiv <= 0 {
		return nil
	}
	switch {
	case sedangEquiv < 3:
		return []string{"Pembinaan wali kelas, tim ketertiban, dan BK."}
	case sedangEquiv == 3:
		return []string{"3x pelanggaran sedang: panggilan orang tua I, pembinaan wali kelas, tim ketertiban, dan BK."}
	case sedangEquiv == 4:
		return []string{"4x pelanggaran sedang: pembinaan wali kelas, tim ketertiban, BK, dan waka kesiswaan."}
	default:
		return []string{"Lebih dari 4x pelanggaran sedang: panggilan orang tua II, pembinaan wali kelas, tim ketertiban, BK, dan waka kesiswaan disertai surat pernyataan."}
	}
}

func beratRecommendations(hasDirectBerat bool) []string {
	notes := []string{
		"Pelanggaran berat: panggilan orang tua III, skorsing (tahap I/II/III) dan surat pernyataan orang tua.",
	}
	if hasDirectBerat {
		notes = append(notes, "Jika pelanggaran terakhir berkategori berat, pertimbangkan skorsing tahap III atau pemindahan sekolah.")
	}
	notes = append(notes, "Skorsing I = 3 hari, Skorsing II = 5 hari, Skorsing III = 10 hari.")
	return notes
}

// BuildRecommendations assembles the ordered, de-duplicated counseling
// recommendations for a student's active violation counts. A clean record
// yields the preventive monitoring note.
func BuildRecommendations(active models.TierCounts, counts models.EscalationCounts) []string {
	var recs []string
	recs = append(recs, ringanRecommendations(active.Ringan)...)
	recs = append(recs, sedangRecommendations(counts.SedangEquiv)...)
	if counts.BeratEquiv > 0 {
		recs = append(recs, beratRecommendations(active.Berat > 0)...)
	}
	if len(recs) == 0 {
		recs = append(recs, "Tidak ada pelanggaran aktif. Tetap lakukan pemantauan preventif.")
	}

	seen := make(map[string]struct{}, len(recs))
	deduped := make([]string, 0, len(recs))
	for _, item := range recs {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		deduped = append(deduped, item)
	}
	return deduped
}
