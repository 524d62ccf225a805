package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeMETAR(t *testing.T) {
	raw := "KPHX 291651Z 11007KT 10SM CLR 27/03 A3010 RMK AO2 SLP187 T02670033"
	tokens := Tokenize(raw, MetarGrammar())

	require.Len(t, tokens, 11)

	assert.Equal(t, Token{Text: "KPHX", Type: TokenStation}, tokens[0])
	assert.Equal(t, Token{Text: "291651Z", Type: TokenTime}, tokens[1])
	assert.Equal(t, Token{Text: "11007KT", Type: TokenWind}, tokens[2])
	assert.Equal(t, Token{Text: "10SM", Type: TokenVisibility}, tokens[3])
	assert.Equal(t, Token{Text: "CLR", Type: TokenCloud}, tokens[4])
	assert.Equal(t, Token{Text: "27/03", Type: TokenTempDewpoint}, tokens[5])
	assert.Equal(t, Token{Text: "A3010", Type: TokenAltimeter}, tokens[6])
	assert.Equal(t, Token{Text: "RMK", Type: TokenRemarksIndicator}, tokens[7])

	// Everything after RMK is remarks, regardless of shape.
	for _, tok := range tokens[8:] {
		assert.Equal(t, TokenRemarks, tok.Type, "token %q", tok.Text)
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	assert.Empty(t, Tokenize("", MetarGrammar()))
	assert.Empty(t, Tokenize("   ", MetarGrammar()))
	assert.Empty(t, Tokenize("", PirepGrammar()))
}

func TestTokenizeCoverage(t *testing.T) {
	// No part may be lost or merged: one token per whitespace field.
	raws := []string{
		"KJFK 290651Z 24008KT 10SM FEW250 22/18 A3002",
		"EGLL 290650Z 27012G22KT 9999 BKN012 14/11 Q1008",
		"total gibberish that matches nothing at all",
	}
	for _, raw := range raws {
		tokens := Tokenize(raw, MetarGrammar())
		assert.Len(t, tokens, len(strings.Fields(raw)), "raw %q", raw)
	}
}

func TestTokenizeOrderPreservation(t *testing.T) {
	raw := "KPHX 291651Z 11007KT 10SM CLR 27/03 A3010 RMK AO2 SLP187"
	tokens := Tokenize(raw, MetarGrammar())
	assert.Equal(t, raw, Reassemble(tokens, MetarGrammar()))
}

func TestTokenizeRemarksContainment(t *testing.T) {
	// A valid wind group after RMK must still be typed remarks.
	tokens := Tokenize("KPHX 291651Z RMK 11007KT A3010", MetarGrammar())
	require.Len(t, tokens, 5)
	assert.Equal(t, TokenRemarksIndicator, tokens[2].Type)
	assert.Equal(t, TokenRemarks, tokens[3].Type)
	assert.Equal(t, TokenRemarks, tokens[4].Type)
}

func TestTokenizePriorityTieBreak(t *testing.T) {
	// A bare 4-digit group classifies as visibility (meters), never unknown.
	tokens := Tokenize("0350", MetarGrammar())
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenVisibility, tokens[0].Type)

	// A 4-letter weather group must not be claimed by the station matcher.
	tokens = Tokenize("TSRA", MetarGrammar())
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenWeather, tokens[0].Type)
}

func TestTokenizeUnknownFallback(t *testing.T) {
	tokens := Tokenize("KPHX 291651Z Z9!@# 11007KT", MetarGrammar())
	require.Len(t, tokens, 4)
	assert.Equal(t, TokenUnknown, tokens[2].Type)
	assert.Equal(t, TokenWind, tokens[3].Type)
}

func TestTokenizeTAFChangeGroups(t *testing.T) {
	raw := "TAF KJFK 291720Z 2918/3024 24008KT P6SM FEW250 FM291800 26012KT 5SM -RA BKN020 TEMPO 2919/2921 2SM TSRA BKN015CB PROB30 2921/2924 1SM +TSRA"
	tokens := Tokenize(raw, TafGrammar())

	byText := map[string]TokenType{}
	for _, tok := range tokens {
		byText[tok.Text] = tok.Type
	}

	assert.Equal(t, TokenReportType, byText["TAF"])
	assert.Equal(t, TokenValidity, byText["2918/3024"])
	assert.Equal(t, TokenChangeIndicator, byText["FM291800"])
	assert.Equal(t, TokenChangeIndicator, byText["TEMPO"])
	assert.Equal(t, TokenChangeIndicator, byText["PROB30"])
	assert.Equal(t, TokenWeather, byText["+TSRA"])
	assert.Equal(t, TokenCloud, byText["BKN015CB"])
}

func TestTokenizeTAFLiterals(t *testing.T) {
	// NSW has no 2-char phenomenon codes, so it resolves via the literal
	// exception rather than the weather pattern.
	tokens := Tokenize("BECMG 2920/2922 NSW", TafGrammar())
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenChangeIndicator, tokens[0].Type)
	assert.Equal(t, TokenValidity, tokens[1].Type)
	assert.Equal(t, TokenWeather, tokens[2].Type)
}

func TestTokenizePIREP(t *testing.T) {
	raw := "KCMH UA /OV APE 230010/TM 1516/FL085/TP BE20/SK BKN065/WX FV03SM HZ FU/TA 20/TB LGT/RM IN CLR"
	tokens := Tokenize(raw, PirepGrammar())

	require.Len(t, tokens, 10)
	assert.Equal(t, Token{Text: "KCMH UA", Type: TokenPirepType}, tokens[0])
	assert.Equal(t, TokenLocation, tokens[1].Type)
	assert.Equal(t, TokenTime, tokens[2].Type)
	assert.Equal(t, TokenAltitude, tokens[3].Type)
	assert.Equal(t, TokenAircraft, tokens[4].Type)
	assert.Equal(t, TokenSky, tokens[5].Type)
	assert.Equal(t, TokenWeather, tokens[6].Type)
	assert.Equal(t, TokenTemperature, tokens[7].Type)
	assert.Equal(t, TokenTurbulence, tokens[8].Type)
	assert.Equal(t, TokenRemarks, tokens[9].Type)
}

func TestTokenizePIREPEmptyFields(t *testing.T) {
	// Doubled and trailing slashes produce no empty tokens.
	tokens := Tokenize("UUA //OV KDEN//TB SEV/", PirepGrammar())
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenPirepType, tokens[0].Type)
	assert.Equal(t, TokenLocation, tokens[1].Type)
	assert.Equal(t, TokenTurbulence, tokens[2].Type)
}

func TestGrammarFor(t *testing.T) {
	assert.Equal(t, TafGrammar(), GrammarFor("taf"))
	assert.Equal(t, PirepGrammar(), GrammarFor("PIREP"))
	assert.Equal(t, MetarGrammar(), GrammarFor("metar"))
	assert.Equal(t, MetarGrammar(), GrammarFor("bogus"))
}
