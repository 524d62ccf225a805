package report

import "regexp"

// Matcher binds one token type to its recognizing pattern. Matchers are
// tried strictly in slice order and the first match wins, so the order of a
// grammar's matcher list is its priority/tie-break policy. Reject, when set,
// vetoes a Pattern match; it exists for the few cases where two token shapes
// overlap exactly (a 4-letter station ident vs. a 4-letter weather group such
// as TSRA or VCSH).
type Matcher struct {
	Type    TokenType
	Pattern *regexp.Regexp
	Reject  *regexp.Regexp
}

// Matches reports whether part is recognized by this matcher.
func (m Matcher) Matches(part string) bool {
	if !m.Pattern.MatchString(part) {
		return false
	}
	return m.Reject == nil || !m.Reject.MatchString(part)
}

// Grammar describes how one report kind is tokenized: its field delimiter,
// its remarks indicator (empty when the grammar has no remarks section), and
// its ordered matcher list. The METAR and TAF grammars share most matchers
// but keep independent priority orderings.
type Grammar struct {
	Name           string
	SlashDelimited bool   // PIREP fields are separated by "/" instead of whitespace
	RemarksLiteral string // e.g. "RMK"; everything after it is free text
	ChangeGroups   bool   // TAF change indicators are checked before patterns
	Matchers       []Matcher
}

var (
	// Token shape patterns. All are anchored; a part either is the token or
	// it is not, there is no partial matching.
	reMetarReportType = regexp.MustCompile(`^(METAR|SPECI)$`)
	reTafReportType   = regexp.MustCompile(`^(TAF|AMD|COR)$`)
	reStation         = regexp.MustCompile(`^[A-Z][A-Z0-9]{3}$`)
	reTime            = regexp.MustCompile(`^\d{6}Z$`)
	reValidity        = regexp.MustCompile(`^\d{4}/\d{4}$`)
	reWind            = regexp.MustCompile(`^(VRB|\d{3})\d{2,3}(G\d{2,3})?(KT|MPS)$`)
	reVariableWind    = regexp.MustCompile(`^\d{3}V\d{3}$`)
	reVisibility      = regexp.MustCompile(`^(CAVOK|\d{4}|[MP]?\d{1,2}(/\d{1,2})?SM|\d{1,2})$`)
	reRunwayVR        = regexp.MustCompile(`^R\d{2}[LRC]?/[MP]?\d{4}(V[MP]?\d{4})?(FT)?[UDN]?$`)
	reWeather         = regexp.MustCompile(`^(\+|-)?(VC)?(MI|PR|BC|DR|BL|SH|TS|FZ|DZ|RA|SN|SG|IC|PL|GR|GS|UP|FG|BR|HZ|VA|DU|SA|PY|FU|SQ|PO|DS|SS|FC)+$`)
	reCloud           = regexp.MustCompile(`^((SKC|CLR|NSC|NCD)|(VV|FEW|SCT|BKN|OVC)\d{3}(CB|TCU)?)$`)
	reTempDewpoint    = regexp.MustCompile(`^M?\d{2}/M?\d{2}$`)
	reTafTemp         = regexp.MustCompile(`^T[XN]M?\d{2}/\d{4}Z$`)
	reAltimeter       = regexp.MustCompile(`^[AQ]\d{4}$`)
	reWindShear       = regexp.MustCompile(`^WS\d{3}/(VRB|\d{3})\d{2,3}(G\d{2,3})?(KT|MPS)$`)
	reChangeTime      = regexp.MustCompile(`^(AT|TL)\d{4}$`)
	reRemarksLiteral  = regexp.MustCompile(`^RMK$`)

	// TAF change-indicator literals, checked before the matcher list.
	reChangeFM   = regexp.MustCompile(`^FM\d{6}$`)
	reChangeProb = regexp.MustCompile(`^PROB\d{2}$`)

	// PIREP field patterns, keyed on each field's 2-letter element code.
	rePirepHeader      = regexp.MustCompile(`^[A-Z0-9]{3,4} U?UA$`)
	rePirepType        = regexp.MustCompile(`^U?UA$`)
	rePirepLocation    = regexp.MustCompile(`^OV\s+\S`)
	rePirepTime        = regexp.MustCompile(`^TM\s+\d{4}$`)
	rePirepAltitude    = regexp.MustCompile(`^FL(\d{2,3}|DUR(C|GD|G|D)?|UNKN)$`)
	rePirepAircraft    = regexp.MustCompile(`^TP\s+\S`)
	rePirepSky         = regexp.MustCompile(`^SK\s+\S`)
	rePirepWeather     = regexp.MustCompile(`^WX\s+\S`)
	rePirepTemperature = regexp.MustCompile(`^TA\s+M?\d+`)
	rePirepWind        = regexp.MustCompile(`^WV\s+\d`)
	rePirepTurbulence  = regexp.MustCompile(`^TB\s+\S`)
	rePirepIcing       = regexp.MustCompile(`^IC\s+\S`)
	rePirepRemarks     = regexp.MustCompile(`^RM\s+\S`)
)

// metarGrammar tokenizes METAR/SPECI observations. The matcher order is
// deliberate: a 4-digit group must be claimed by visibility before anything
// can let it fall to unknown, and station must be ahead of the remarks
// catch-all (which only exists implicitly, post-RMK).
var metarGrammar = &Grammar{
	Name:           "METAR",
	RemarksLiteral: "RMK",
	Matchers: []Matcher{
		{Type: TokenReportType, Pattern: reMetarReportType},
		{Type: TokenStation, Pattern: reStation, Reject: reWeather},
		{Type: TokenTime, Pattern: reTime},
		{Type: TokenWind, Pattern: reWind},
		{Type: TokenVariableWind, Pattern: reVariableWind},
		{Type: TokenVisibility, Pattern: reVisibility},
		{Type: TokenRunwayVR, Pattern: reRunwayVR},
		{Type: TokenWeather, Pattern: reWeather},
		{Type: TokenCloud, Pattern: reCloud},
		{Type: TokenTempDewpoint, Pattern: reTempDewpoint},
		{Type: TokenAltimeter, Pattern: reAltimeter},
		{Type: TokenRemarksIndicator, Pattern: reRemarksLiteral},
	},
}

// tafGrammar tokenizes TAF forecasts. Relative to METAR it inserts validity,
// change time, temperature-forecast and wind-shear groups, and routes change
// indicators (BECMG/TEMPO/PROBnn/FMddhhmm) through literal checks before the
// matcher list ever runs.
var tafGrammar = &Grammar{
	Name:           "TAF",
	RemarksLiteral: "RMK",
	ChangeGroups:   true,
	Matchers: []Matcher{
		{Type: TokenReportType, Pattern: reTafReportType},
		{Type: TokenStation, Pattern: reStation, Reject: reWeather},
		{Type: TokenTime, Pattern: reTime},
		{Type: TokenValidity, Pattern: reValidity},
		{Type: TokenChangeTime, Pattern: reChangeTime},
		{Type: TokenWind, Pattern: reWind},
		{Type: TokenVariableWind, Pattern: reVariableWind},
		{Type: TokenVisibility, Pattern: reVisibility},
		{Type: TokenWeather, Pattern: reWeather},
		{Type: TokenCloud, Pattern: reCloud},
		{Type: TokenTemp, Pattern: reTafTemp},
		{Type: TokenWindShear, Pattern: reWindShear},
		{Type: TokenRemarksIndicator, Pattern: reRemarksLiteral},
	},
}

// pirepGrammar tokenizes PIREPs, whose native structure is slash-delimited
// element fields rather than whitespace-delimited groups.
var pirepGrammar = &Grammar{
	Name:           "PIREP",
	SlashDelimited: true,
	Matchers: []Matcher{
		{Type: TokenPirepType, Pattern: rePirepHeader},
		{Type: TokenPirepType, Pattern: rePirepType},
		{Type: TokenLocation, Pattern: rePirepLocation},
		{Type: TokenTime, Pattern: rePirepTime},
		{Type: TokenAltitude, Pattern: rePirepAltitude},
		{Type: TokenAircraft, Pattern: rePirepAircraft},
		{Type: TokenSky, Pattern: rePirepSky},
		{Type: TokenWeather, Pattern: rePirepWeather},
		{Type: TokenTemperature, Pattern: rePirepTemperature},
		{Type: TokenWind, Pattern: rePirepWind},
		{Type: TokenTurbulence, Pattern: rePirepTurbulence},
		{Type: TokenIcing, Pattern: rePirepIcing},
		{Type: TokenRemarks, Pattern: rePirepRemarks},
	},
}

// MetarGrammar returns the METAR grammar descriptor.
func MetarGrammar() *Grammar { return metarGrammar }

// TafGrammar returns the TAF grammar descriptor.
func TafGrammar() *Grammar { return tafGrammar }

// PirepGrammar returns the PIREP grammar descriptor.
func PirepGrammar() *Grammar { return pirepGrammar }

// GrammarFor maps a product kind ("metar", "taf", "pirep") to its grammar.
// Unrecognized kinds fall back to METAR, the most permissive surface grammar.
func GrammarFor(kind string) *Grammar {
	switch kind {
	case "taf", "TAF":
		return tafGrammar
	case "pirep", "PIREP":
		return pirepGrammar
	default:
		return metarGrammar
	}
}
