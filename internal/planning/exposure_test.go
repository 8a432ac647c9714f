package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The exposure table is a calibrated business rule set; downstream
// efficiency thresholds are bit-sensitive to these values, so the test
// pins every factor.
func TestExposureTableFactors(t *testing.T) {
	table := DefaultExposureTable()

	tests := []struct {
		format  string
		digital bool
		want    int64
	}{
		{"Empena", false, 50000},
		{"Painel Rodoviário", false, 50000},
		{"Painel LED", true, 50000},
		{"Metrô - Plataforma", false, 45000},
		{"Aeroporto Mídia", false, 40000},
		{"Shopping Center", false, 35000},
		{"Envelopamento de Edifício", false, 35000},
		{"Parque Linear", false, 30000},
		{"Abrigo de Ônibus", false, 20000},
		{"Abrigo de Ônibus", true, 25000},
		{"Ponto de Onibus", true, 25000},
		{"MUB", false, 22000},
		{"Banca de Jornal", false, 22000},
		{"Totem", false, 18000},
		{"Totem Digital", true, 28000},
		{"Circuito Indoor", false, 20000},
		{"Backbus", false, 18000},
		{"Backseat", false, 8000},
		{"Mobiliário Exterior", false, 25000},
		{"Relógio de Rua", false, 12000},
		{"Relógio de Rua", true, 15000},
	}

	for _, tt := range tests {
		got := table.Factor(tt.format, tt.digital)
		assert.Equal(t, tt.want, got, "format %q digital=%v", tt.format, tt.digital)
	}
}

func TestExposureLookupIsCaseInsensitive(t *testing.T) {
	table := DefaultExposureTable()
	assert.Equal(t, table.Factor("EMPENA NORTE", false), table.Factor("empena norte", false))
}

// Real inventory names carry Portuguese diacritics while the rule
// substrings do not; lookup must treat them as equivalent.
func TestExposureLookupIgnoresAccents(t *testing.T) {
	table := DefaultExposureTable()

	assert.Equal(t, int64(45000), table.Factor("Metrô - Plataforma", false))
	assert.Equal(t, int64(25000), table.Factor("Ponto de Ônibus", true))
	assert.Equal(t, table.Factor("Estação de Metrô", false), table.Factor("Estacao de Metro", false))
}

func TestEstimatedExposure(t *testing.T) {
	assert.Equal(t, int64(120000), EstimatedExposure(10, 12000))
	assert.Equal(t, int64(0), EstimatedExposure(0, 50000))
}
