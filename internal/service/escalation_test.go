package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

func TestNormalizeSeverity(t *testing.T) {
	assert.Equal(t, "ringan", NormalizeSeverity("Ringan"))
	assert.Equal(t, "sedang", NormalizeSeverity("  SEDANG  "))
	assert.Equal(t, "berat", NormalizeSeverity("berat"))
	assert.Equal(t, "ringan", NormalizeSeverity(""))
	assert.Equal(t, "ringan", NormalizeSeverity("unknown"))
}

func TestCalculateEffectiveCounts(t *testing.T) {
	tests := []struct {
		name   string
		active models.TierCounts
		want   models.EscalationCounts
	}{
		{
			name:   "all zero",
			active: models.TierCounts{},
			want:   models.EscalationCounts{},
		},
		{
			name:   "light below carry threshold",
			active: models.TierCounts{Ringan: 9},
			want: models.EscalationCounts{
				Ringan:          9,
				RinganRemainder: 9,
			},
		},
		{
			name:   "twelve light carry into one moderate",
			active: models.TierCounts{Ringan: 12},
			want: models.EscalationCounts{
				Ringan:          12,
				RinganRemainder: 2,
				SedangEquiv:     1,
				SedangRemainder: 1,
			},
		},
		{
			name:   "light carry stacks on existing moderate",
			active: models.TierCounts{Ringan: 27, Sedang: 1},
			want: models.EscalationCounts{
				Ringan:          27,
				Sedang:          1,
				RinganRemainder: 7,
				SedangEquiv:     3,
				SedangRemainder: 3,
			},
		},
		{
			name:   "five moderate equivalents carry into severe",
			active: models.TierCounts{Sedang: 5},
			want: models.EscalationCounts{
				Sedang:          5,
				SedangEquiv:     5,
				SedangRemainder: 0,
				BeratEquiv:      1,
			},
		},
		{
			name:   "double carry from light through severe",
			active: models.TierCounts{Ringan: 50},
			want: models.EscalationCounts{
				Ringan:          50,
				RinganRemainder: 0,
				SedangEquiv:     5,
				SedangRemainder: 0,
				BeratEquiv:      1,
			},
		},
		{
			name:   "direct severe kept alongside carries",
			active: models.TierCounts{Ringan: 11, Sedang: 4, Berat: 2},
			want: models.EscalationCounts{
				Ringan:          11,
				Sedang:          4,
				Berat:           2,
				RinganRemainder: 1,
				SedangEquiv:     5,
				SedangRemainder: 0,
				BeratEquiv:      3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateEffectiveCounts(tt.active))
		})
	}
}

func TestCalculateEffectiveCountsMonotonic(t *testing.T) {
	prev := CalculateEffectiveCounts(models.TierCounts{})
	for ringan := 1; ringan <= 60; ringan++ {
		next := CalculateEffectiveCounts(models.TierCounts{Ringan: ringan})
		assert.GreaterOrEqual(t, next.SedangEquiv, prev.SedangEquiv)
		assert.GreaterOrEqual(t, next.BeratEquiv, prev.BeratEquiv)
		prev = next
	}
}

func TestDetermineStatusLevel(t *testing.T) {
	tests := []struct {
		name   string
		active models.TierCounts
		want   string
	}{
		{"no violations", models.TierCounts{}, models.SeverityNone},
		{"only light", models.TierCounts{Ringan: 3}, models.SeverityLight},
		{"moderate present", models.TierCounts{Ringan: 2, Sedang: 1}, models.SeverityModerate},
		{"light carry reaches moderate", models.TierCounts{Ringan: 10}, models.SeverityModerate},
		{"severe dominates", models.TierCounts{Ringan: 1, Sedang: 1, Berat: 1}, models.SeveritySevere},
		{"moderate carry reaches severe", models.TierCounts{Sedang: 5}, models.SeveritySevere},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := CalculateEffectiveCounts(tt.active)
			assert.Equal(t, tt.want, DetermineStatusLevel(counts))
		})
	}
}

func TestBuildRecommendationsBands(t *testing.T) {
	recs := func(active models.TierCounts) []string {
		return BuildRecommendations(active, CalculateEffectiveCounts(active))
	}

	t.Run("clean record gets preventive note", func(t *testing.T) {
		got := recs(models.TierCounts{})
		assert.Equal(t, []string{"Tidak ada pelanggaran aktif. Tetap lakukan pemantauan preventif."}, got)
	})

	t.Run("few light violations", func(t *testing.T) {
		got := recs(models.TierCounts{Ringan: 4})
		assert.Equal(t, []string{"Pembinaan guru mata pelajaran dengan catatan atau dokumentasi."}, got)
	})

	t.Run("exactly five light", func(t *testing.T) {
		got := recs(models.TierCounts{Ringan: 5})
		assert.Equal(t, []string{"laporan ke wali kelas dan pembinaan wali kelas tahap I."}, got)
	})

	t.Run("six to ten light", func(t *testing.T) {
		got := recs(models.TierCounts{Ringan: 8})
		assert.Equal(t, []string{"pembinaan wali kelas tahap II dan pembinaan BK."}, got)
	})

	t.Run("light overflow adds moderate track", func(t *testing.T) {
		got := recs(models.TierCounts{Ringan: 11})
		assert.Equal(t, []string{
			"pembinaan BK serta surat pernyataan diketahui orang tua.",
			"Pembinaan wali kelas, tim ketertiban, dan BK.",
		}, got)
	})

	t.Run("three moderate equivalents", func(t *testing.T) {
		got := recs(models.TierCounts{Sedang: 3})
		assert.Equal(t, []string{"3x pelanggaran sedang: panggilan orang tua I, pembinaan wali kelas, tim ketertiban, dan BK."}, got)
	})

	t.Run("above four moderate equivalents escalates to severe", func(t *testing.T) {
		got := recs(models.TierCounts{Sedang: 6})
		assert.Equal(t, []string{
			"Lebih dari 4x pelanggaran sedang: panggilan orang tua II, pembinaan wali kelas, tim ketertiban, BK, dan waka kesiswaan disertai surat pernyataan.",
			"Pelanggaran berat: panggilan orang tua III, skorsing (tahap I/II/III) dan surat pernyataan orang tua.",
			"Skorsing I = 3 hari, Skorsing II = 5 hari, Skorsing III = 10 hari.",
		}, got)
	})

	t.Run("direct severe adds transfer consideration", func(t *testing.T) {
		got := recs(models.TierCounts{Berat: 1})
		assert.Equal(t, []string{
			"Pelanggaran berat: panggilan orang tua III, skorsing (tahap I/II/III) dan surat pernyataan orang tua.",
			"Jika pelanggaran terakhir berkategori berat, pertimbangkan skorsing tahap III atau pemindahan sekolah.",
			"Skorsing I = 3 hari, Skorsing II = 5 hari, Skorsing III = 10 hari.",
		}, got)
	})

	t.Run("never empty and never duplicated", func(t *testing.T) {
		for ringan := 0; ringan <= 25; ringan++ {
			for sedang := 0; sedang <= 8; sedang++ {
				active := models.TierCounts{Ringan: ringan, Sedang: sedang}
				got := recs(active)
				assert.NotEmpty(t, got)
				seen := make(map[string]struct{})
				for _, item := range got {
					_, dup := seen[item]
					assert.False(t, dup, "duplicate recommendation for %+v: %s", active, item)
					seen[item] = struct{}{}
				}
			}
		}
	})
}
