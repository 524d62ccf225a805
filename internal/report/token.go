package report

// TokenType classifies a single component of a raw aviation weather report.
// The set is closed; the tokenizer never emits a type outside of it.
type TokenType string

const (
	TokenReportType       TokenType = "reportType"
	TokenStation          TokenType = "station"
	TokenTime             TokenType = "time"
	TokenValidity         TokenType = "validity"
	TokenWind             TokenType = "wind"
	TokenVariableWind     TokenType = "variable_wind"
	TokenVisibility       TokenType = "visibility"
	TokenRunwayVR         TokenType = "runway_vr"
	TokenWeather          TokenType = "weather"
	TokenCloud            TokenType = "cloud"
	TokenTempDewpoint     TokenType = "temp_dewpoint"
	TokenTemp             TokenType = "temp"
	TokenAltimeter        TokenType = "altimeter"
	TokenWindShear        TokenType = "wind_shear"
	TokenChangeIndicator  TokenType = "changeIndicator"
	TokenChangeTime       TokenType = "changeTime"
	TokenRemarksIndicator TokenType = "remarks_indicator"
	TokenRemarks          TokenType = "remarks"
	TokenUnknown          TokenType = "unknown"

	// PIREP-specific types (fields are slash-delimited, not whitespace-delimited)
	TokenLocation    TokenType = "location"
	TokenPirepType   TokenType = "report_type"
	TokenAltitude    TokenType = "altitude"
	TokenAircraft    TokenType = "aircraft"
	TokenSky         TokenType = "sky"
	TokenTemperature TokenType = "temperature"
	TokenTurbulence  TokenType = "turbulence"
	TokenIcing       TokenType = "icing"
)

// Token is one classified component of a raw report. Text is the original
// substring exactly as it appeared; Type is assigned once by the tokenizer.
type Token struct {
	Text string    `json:"text"`
	Type TokenType `json:"type"`
}

// Explanation is the decoded, human-readable meaning of a single token.
// It is computed on demand from (Text, Type) and never cached.
type Explanation struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	OperationalImpact string `json:"operationalImpact"`
	Summary           string `json:"summary"`
}
