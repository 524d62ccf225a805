package weather

import (
	"testing"
	"time"

	"github.com/skybrief/wx-hub/internal/config"
	"github.com/skybrief/wx-hub/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) *Service {
	t.Helper()
	cfg := config.DefaultConfig()
	return NewService(cfg.Weather, cfg.Station, logger.NewNop())
}

func TestWindDirDegrees(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
		ok   bool
	}{
		{"float from JSON", float64(270), 270, true},
		{"numeric string", "180", 180, true},
		{"variable wind", "VRB", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := windDirDegrees(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttachParsedMETAR(t *testing.T) {
	svc := testService(t)

	metar := &METARResponse{
		ICAOID:      "CYYZ",
		Wdir:        float64(270),
		RawObserved: "METAR CYYZ 251900Z 27010KT 15SM FEW240 22/10 A3012",
	}
	result := FetchResult{Type: WeatherTypeMETAR, Data: metar}

	svc.attachParsed(&result, svc.HomeStation())

	require.NotNil(t, metar.Parsed)
	assert.Equal(t, "CYYZ", metar.Parsed.Station)
	assert.Equal(t, "VFR", metar.Parsed.FlightCategory)

	// Home station observations get magnetic wind attached.
	require.NotNil(t, metar.MagneticDeclination)
	require.NotNil(t, metar.MagneticWindDir)
	assert.GreaterOrEqual(t, *metar.MagneticWindDir, 0)
	assert.Less(t, *metar.MagneticWindDir, 360)
}

func TestAttachParsedMETAROtherStation(t *testing.T) {
	svc := testService(t)

	metar := &METARResponse{
		ICAOID:      "KJFK",
		Wdir:        float64(270),
		RawObserved: "METAR KJFK 251851Z 27010KT 10SM FEW250 24/12 A3005",
	}
	result := FetchResult{Type: WeatherTypeMETAR, Data: metar}

	svc.attachParsed(&result, "KJFK")

	require.NotNil(t, metar.Parsed)
	assert.Nil(t, metar.MagneticDeclination)
	assert.Nil(t, metar.MagneticWindDir)
}

func TestAttachParsedPIREPs(t *testing.T) {
	svc := testService(t)

	result := FetchResult{
		Type: WeatherTypePIREP,
		Data: []string{"CMH UA /OV APE 230010/TM 1516/FL085/TP BE20/SK BKN065/WX FV03SM HZ FU/TA 20"},
	}

	svc.attachParsed(&result, svc.HomeStation())

	entries, ok := result.Data.([]PIREPEntry)
	require.True(t, ok)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Parsed)
	assert.False(t, entries[0].Parsed.Urgent)
}

func TestAttachParsedSkipsErrors(t *testing.T) {
	svc := testService(t)

	metar := &METARResponse{RawObserved: "CYYZ 251900Z"}
	result := FetchResult{Type: WeatherTypeMETAR, Data: metar, Err: assert.AnError}

	svc.attachParsed(&result, svc.HomeStation())

	assert.Nil(t, metar.Parsed)
}

func TestMagneticDeclination(t *testing.T) {
	// Toronto sits around 10 degrees west declination; accept a wide band so
	// the test survives model epoch updates.
	decl := MagneticDeclination(43.6777, -79.6248, 569, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.InDelta(t, -10, decl, 5)
}

func TestTrueToMagnetic(t *testing.T) {
	assert.Equal(t, 280, TrueToMagnetic(270, -10))
	assert.Equal(t, 260, TrueToMagnetic(270, 10))
	assert.Equal(t, 350, TrueToMagnetic(0, 10))
	assert.Equal(t, 10, TrueToMagnetic(350, -20))
}
