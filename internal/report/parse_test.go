package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMETAR(t *testing.T) {
	m := ParseMETAR("KPHX 291651Z 11007KT 10SM CLR 27/03 A3010 RMK AO2 SLP187 T02670033")

	assert.Equal(t, "KPHX", m.Station)
	assert.Equal(t, "From 110° at 7 knots", m.Wind)
	assert.Equal(t, "10 SM", m.Visibility)
	assert.InDelta(t, 10.0, m.VisibilitySM, 1e-9)
	assert.Equal(t, -1, m.CeilingFt)
	assert.Equal(t, "27°C", m.Temperature)
	assert.Equal(t, "3°C", m.Dewpoint)
	assert.Equal(t, "30.10 inHg", m.Altimeter)
	assert.Equal(t, "VFR", m.FlightCategory)
	assert.Len(t, m.Remarks, 3)
	assert.Contains(t, m.Summary, "VFR")
	require.Len(t, m.Tokens, 11)
}

func TestParseMETARCeiling(t *testing.T) {
	// Ceiling is the lowest broken/overcast/VV layer; scattered layers below
	// it do not count.
	m := ParseMETAR("EGLL 290650Z 27012G22KT 4000 -RA SCT004 BKN008 OVC015 14/11 Q1008")

	assert.Equal(t, 800, m.CeilingFt)
	assert.Equal(t, "IFR", m.FlightCategory)
	assert.Len(t, m.Clouds, 3)
	assert.Equal(t, []string{"Light Rain"}, m.Weather)
}

func TestParseMETARGarbage(t *testing.T) {
	m := ParseMETAR("complete rubbish input")
	assert.Empty(t, m.Station)
	assert.Equal(t, "VFR", m.FlightCategory)
	assert.Len(t, m.Tokens, 3)
}

func TestParseTAFPeriods(t *testing.T) {
	raw := "TAF KJFK 291720Z 2918/3024 24008KT P6SM FEW250 " +
		"FM291800 26012KT 5SM -RA BKN020 " +
		"TEMPO 2919/2921 2SM TSRA BKN008CB"
	f := ParseTAF(raw)

	assert.Equal(t, "KJFK", f.Station)
	assert.Equal(t, "Valid 2918Z-3024Z", f.Validity)
	require.Len(t, f.Periods, 3)

	base := f.Periods[0]
	assert.Equal(t, "Initial conditions", base.Label)
	assert.Equal(t, "From 240° at 8 knots", base.Wind)
	assert.Equal(t, "VFR", base.FlightCategory)

	fm := f.Periods[1]
	assert.Equal(t, "FM291800", fm.Indicator)
	assert.Equal(t, "From: rapid change at day 29, 18:00 UTC", fm.Label)
	assert.Equal(t, 2000, fm.CeilingFt)
	assert.Equal(t, "MVFR", fm.FlightCategory)

	tempo := f.Periods[2]
	assert.Equal(t, "TEMPO", tempo.Indicator)
	assert.Equal(t, 800, tempo.CeilingFt)
	assert.Equal(t, "IFR", tempo.FlightCategory)
	assert.Contains(t, tempo.Weather, "Thunderstorm Rain")
}

func TestParseTAFAmended(t *testing.T) {
	f := ParseTAF("TAF AMD KBOS 291800Z 2918/3018 VRB03KT P6SM SKC")
	assert.True(t, f.Amended)
	assert.Equal(t, "KBOS", f.Station)
}

func TestParsePIREP(t *testing.T) {
	raw := "KCMH UA /OV APE 230010/TM 1516/FL085/TP BE20/SK BKN065/TA M04/TB LGT/IC LGT RIME/RM IN CLR"
	p := ParsePIREP(raw)

	assert.Equal(t, "KCMH", p.Station)
	assert.False(t, p.Urgent)
	assert.Equal(t, "APE 230010", p.Location)
	assert.Equal(t, "15:16Z", p.Time)
	assert.Equal(t, "8500 ft", p.Altitude)
	assert.Equal(t, "BE20", p.Aircraft)
	assert.Equal(t, "-4°C", p.Temperature)
	assert.Equal(t, "Light", p.Turbulence)
	assert.Equal(t, "Light rime", p.Icing)
	assert.Equal(t, "IN CLR", p.Remarks)
	assert.Contains(t, p.Summary, "Routine pilot report")
}

func TestParsePIREPUrgent(t *testing.T) {
	p := ParsePIREP("KDEN UUA /OV DEN 180020/TM 2210/FL310/TP B738/TB SEV")
	assert.True(t, p.Urgent)
	assert.Equal(t, "Severe", p.Turbulence)
	assert.Contains(t, p.Summary, "Urgent pilot report")
}

func TestVisibilityStatuteMiles(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10SM", 10},
		{"P6SM", 6},
		{"M1/4SM", 0.25},
		{"1/2SM", 0.5},
		{"CAVOK", 10},
		{"9999", 10},
		{"1600", 1600.0 / 1609.34},
	}
	for _, tt := range tests {
		got, ok := visibilityStatuteMiles(tt.in)
		require.True(t, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-6, tt.in)
	}

	_, ok := visibilityStatuteMiles("junk")
	assert.False(t, ok)
}
