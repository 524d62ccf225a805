package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeWind(t *testing.T) {
	tests := []struct {
		text    string
		title   string
		summary string
	}{
		{"00000KT", "Wind: Calm", "Calm"},
		{"11007KT", "Wind: From 110° at 7 knots", "From 110° at 7 knots"},
		{"27012G22KT", "Wind: From 270° at 12 knots, gusting to 22 knots", "From 270° at 12 knots, gusting to 22 knots"},
		{"VRB03KT", "Wind: Variable direction at 3 knots", "Variable direction at 3 knots"},
		{"24008MPS", "Wind: From 240° at 8 meters per second", "From 240° at 8 meters per second"},
	}
	for _, tt := range tests {
		got := Decode(Token{Text: tt.text, Type: TokenWind})
		assert.Equal(t, tt.title, got.Title, tt.text)
		assert.Equal(t, tt.summary, got.Summary, tt.text)
	}
}

func TestDecodeWindGustImpact(t *testing.T) {
	// A gust factor over 10 knots flags possible wind shear.
	got := Decode(Token{Text: "18015G28KT", Type: TokenWind})
	assert.Contains(t, got.OperationalImpact, "wind shear")

	got = Decode(Token{Text: "18010G16KT", Type: TokenWind})
	assert.Contains(t, got.OperationalImpact, "gusts on approach")

	got = Decode(Token{Text: "18025G38KT", Type: TokenWind})
	assert.Contains(t, got.OperationalImpact, "Severe gusts")
}

func TestDecodeVisibility(t *testing.T) {
	got := Decode(Token{Text: "CAVOK", Type: TokenVisibility})
	assert.Contains(t, got.Description, "10km or more")
	assert.Contains(t, got.Description, "no cloud below 5000 ft")

	got = Decode(Token{Text: "10SM", Type: TokenVisibility})
	assert.Equal(t, "Visibility: 10 statute miles", got.Title)
	assert.Contains(t, got.OperationalImpact, "Excellent")

	got = Decode(Token{Text: "1/2SM", Type: TokenVisibility})
	assert.Contains(t, got.OperationalImpact, "below VFR minimums")

	got = Decode(Token{Text: "M1/4SM", Type: TokenVisibility})
	assert.Contains(t, got.Title, "less than")

	got = Decode(Token{Text: "0800", Type: TokenVisibility})
	assert.Contains(t, got.OperationalImpact, "below VFR minimums")

	got = Decode(Token{Text: "9999", Type: TokenVisibility})
	assert.Equal(t, "10 km or more", got.Summary)
}

func TestParseFractionMiles(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2", 2, true},
		{"1/2", 0.5, true},
		{"1 1/2", 1.5, true},
		{"2.5", 2.5, true},
		{"", 0, false},
		{"x/2", 0, false},
		{"1/0", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseFractionMiles(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, tt.in)
		}
	}
}

func TestDecodeWeather(t *testing.T) {
	tests := []struct {
		text    string
		summary string
	}{
		{"-RA", "Light Rain"},
		{"+TSRA", "Heavy Thunderstorm Rain"},
		{"VCSH", "Vicinity Shower"},
		{"FZDZ", "Freezing Drizzle"},
		{"BR", "Mist"},
	}
	for _, tt := range tests {
		got := Decode(Token{Text: tt.text, Type: TokenWeather})
		assert.Equal(t, tt.summary, got.Summary, tt.text)
	}

	// Unknown 2-char chunks pass through verbatim.
	got := Decode(Token{Text: "RAZZ", Type: TokenWeather})
	assert.Contains(t, got.Summary, "Rain")
	assert.Contains(t, got.Summary, "ZZ")
}

func TestDecodeCloud(t *testing.T) {
	got := Decode(Token{Text: "BKN025CB", Type: TokenCloud})
	assert.Contains(t, got.Description, "2500 feet")
	assert.Contains(t, got.Description, "Cumulonimbus")
	assert.Contains(t, got.OperationalImpact, "MVFR")

	got = Decode(Token{Text: "OVC004", Type: TokenCloud})
	assert.Contains(t, got.OperationalImpact, "LIFR")

	got = Decode(Token{Text: "FEW250", Type: TokenCloud})
	assert.NotContains(t, got.OperationalImpact, "Ceiling")

	got = Decode(Token{Text: "CLR", Type: TokenCloud})
	assert.Contains(t, got.Title, "Clear")
}

func TestDecodeTempDewpoint(t *testing.T) {
	// Tight spread: fog very likely.
	got := Decode(Token{Text: "12/11", Type: TokenTempDewpoint})
	assert.Contains(t, got.OperationalImpact, "fog formation very likely")

	// Freezing band: airframe icing moderate to high.
	got = Decode(Token{Text: "M05/M08", Type: TokenTempDewpoint})
	assert.Equal(t, "Temperature -5°C, dewpoint -8°C", got.Title)
	assert.Contains(t, got.OperationalImpact, "moderate to high")

	// Cold and soaked at low temperature: serious carb icing.
	got = Decode(Token{Text: "04/02", Type: TokenTempDewpoint})
	assert.Contains(t, got.OperationalImpact, "Serious carburetor icing")

	// Warm and dry: nothing flagged.
	got = Decode(Token{Text: "27/03", Type: TokenTempDewpoint})
	assert.Contains(t, got.OperationalImpact, "fog formation unlikely")
	assert.NotContains(t, got.OperationalImpact, "carburetor")
}

func TestDecodeAltimeter(t *testing.T) {
	got := Decode(Token{Text: "A2992", Type: TokenAltimeter})
	assert.Equal(t, "Altimeter: 29.92 inHg", got.Title)
	assert.Contains(t, got.OperationalImpact, "Standard pressure")

	got = Decode(Token{Text: "A2982", Type: TokenAltimeter})
	assert.Contains(t, got.OperationalImpact, "look out below")
	assert.Contains(t, got.OperationalImpact, "100 feet")

	got = Decode(Token{Text: "Q1008", Type: TokenAltimeter})
	assert.Equal(t, "Altimeter: 1008.00 hPa", got.Title)
	assert.Contains(t, got.OperationalImpact, "142 feet")
}

func TestDecodeChangeIndicator(t *testing.T) {
	got := Decode(Token{Text: "FM291800", Type: TokenChangeIndicator})
	assert.Equal(t, "From: rapid change at day 29, 18:00 UTC", got.Title)

	got = Decode(Token{Text: "BECMG", Type: TokenChangeIndicator})
	assert.Contains(t, got.Description, "permanent")

	got = Decode(Token{Text: "TEMPO", Type: TokenChangeIndicator})
	assert.Contains(t, got.Description, "less than 1 hour")

	got = Decode(Token{Text: "PROB30", Type: TokenChangeIndicator})
	assert.Equal(t, "30% Probability", got.Title)
}

func TestDecodeRemarks(t *testing.T) {
	got := Decode(Token{Text: "SLP187", Type: TokenRemarks})
	assert.Equal(t, "1018.7 hPa", got.Summary)

	got = Decode(Token{Text: "SLP982", Type: TokenRemarks})
	assert.Equal(t, "998.2 hPa", got.Summary)

	got = Decode(Token{Text: "AO2", Type: TokenRemarks})
	assert.Contains(t, got.Description, "with a precipitation discriminator")

	got = Decode(Token{Text: "P0012", Type: TokenRemarks})
	assert.Equal(t, "0.12 in/hr", got.Summary)

	got = Decode(Token{Text: "T02670033", Type: TokenRemarks})
	assert.Equal(t, "26.7°C / 3.3°C", got.Summary)

	got = Decode(Token{Text: "PK WND", Type: TokenRemarks})
	assert.Equal(t, "Remark", got.Title)
}

func TestDecodePIREPFields(t *testing.T) {
	got := Decode(Token{Text: "FL085", Type: TokenAltitude})
	assert.Equal(t, "Altitude: 8500 ft MSL", got.Title)

	got = Decode(Token{Text: "FLUNKN", Type: TokenAltitude})
	assert.Contains(t, got.Title, "unknown")

	got = Decode(Token{Text: "TB MOD-SEV", Type: TokenTurbulence})
	assert.Contains(t, got.Title, "Moderate to severe")

	got = Decode(Token{Text: "IC LGT RIME", Type: TokenIcing})
	assert.Contains(t, got.Title, "Light rime")

	got = Decode(Token{Text: "TA M04", Type: TokenTemperature})
	assert.Equal(t, "Outside air temperature: -4°C", got.Title)
	assert.Contains(t, got.OperationalImpact, "icing possible")

	got = Decode(Token{Text: "TM 1516", Type: TokenTime})
	assert.Equal(t, "15:16Z", got.Summary)
}

func TestDecodeMalformedNeverPanics(t *testing.T) {
	// Malformed sub-fields degrade per token, they never panic.
	bad := []Token{
		{Text: "VRBXXKT", Type: TokenWind},
		{Text: "ABCDSM", Type: TokenVisibility},
		{Text: "BKNXYZ", Type: TokenCloud},
		{Text: "XX/YY", Type: TokenTempDewpoint},
		{Text: "AXXXX", Type: TokenAltimeter},
		{Text: "FMXXYYZZ", Type: TokenChangeIndicator},
		{Text: "", Type: TokenTime},
	}
	for _, tok := range bad {
		got := Decode(tok)
		assert.NotEmpty(t, got.Title, tok.Text)
	}
}

func TestDecodeIdempotent(t *testing.T) {
	tok := Token{Text: "27012G22KT", Type: TokenWind}
	assert.Equal(t, Decode(tok), Decode(tok))
}

func TestDecodeUnknown(t *testing.T) {
	got := Decode(Token{Text: "Z9!@#", Type: TokenUnknown})
	assert.Equal(t, "Unrecognized", got.Title)
	assert.Contains(t, got.Summary, "Unrecognized")
}
