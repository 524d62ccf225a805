package report

import (
	"strings"
)

// TAFPeriod is one forecast segment: the initial conditions, or a change
// group (FM, BECMG, TEMPO, PROBnn) and everything up to the next one.
type TAFPeriod struct {
	Indicator      string   `json:"indicator,omitempty"`
	Label          string   `json:"label"`
	Time           string   `json:"time,omitempty"`
	Wind           string   `json:"wind,omitempty"`
	Visibility     string   `json:"visibility,omitempty"`
	VisibilitySM   float64  `json:"visibility_sm"`
	Weather        []string `json:"weather,omitempty"`
	Clouds         []string `json:"clouds,omitempty"`
	CeilingFt      int      `json:"ceiling_ft"`
	FlightCategory string   `json:"flight_category"`
}

// TAF is the structured form of a terminal forecast.
type TAF struct {
	Raw      string           `json:"raw"`
	Station  string           `json:"station"`
	Issued   string           `json:"issued"`
	Validity string           `json:"validity"`
	Amended  bool             `json:"amended,omitempty"`
	Periods  []TAFPeriod      `json:"periods"`
	Summary  string           `json:"summary"`
	Tokens   []AnnotatedToken `json:"tokens"`
}

// ParseTAF tokenizes and decodes a raw TAF, splitting the token stream into
// forecast periods at each change indicator. Like ParseMETAR it never fails.
func ParseTAF(raw string) *TAF {
	tokens := Tokenize(raw, TafGrammar())
	t := &TAF{
		Raw:    strings.TrimSpace(raw),
		Tokens: DecodeAll(tokens),
	}

	current := &TAFPeriod{Label: "Initial conditions", VisibilitySM: -1, CeilingFt: -1}

	flush := func() {
		current.FlightCategory = flightCategory(current.VisibilitySM, current.CeilingFt)
		t.Periods = append(t.Periods, *current)
	}

	for _, at := range t.Tokens {
		tok := at.Token
		switch tok.Type {
		case TokenReportType:
			if tok.Text == "AMD" || tok.Text == "COR" {
				t.Amended = true
			}
		case TokenStation:
			if t.Station == "" {
				t.Station = tok.Text
			}
		case TokenTime:
			if t.Issued == "" {
				t.Issued = at.Explanation.Summary
			}
		case TokenValidity:
			if t.Validity == "" {
				t.Validity = at.Explanation.Summary
			}
		case TokenChangeIndicator:
			flush()
			current = &TAFPeriod{
				Indicator:    tok.Text,
				Label:        at.Explanation.Summary,
				VisibilitySM: -1,
				CeilingFt:    -1,
			}
		case TokenChangeTime:
			current.Time = at.Explanation.Summary
		case TokenWind, TokenWindShear:
			if current.Wind == "" {
				current.Wind = at.Explanation.Summary
			}
		case TokenVisibility:
			current.Visibility = at.Explanation.Summary
			if sm, ok := visibilityStatuteMiles(tok.Text); ok {
				current.VisibilitySM = sm
			}
		case TokenWeather:
			current.Weather = append(current.Weather, at.Explanation.Summary)
		case TokenCloud:
			current.Clouds = append(current.Clouds, at.Explanation.Summary)
			if base, ceiling := cloudBase(tok.Text); ceiling {
				if current.CeilingFt < 0 || base < current.CeilingFt {
					current.CeilingFt = base
				}
			}
		}
	}
	flush()

	t.Summary = tafSummary(t)
	return t
}

// tafSummary renders the per-period conditions as one readable paragraph.
func tafSummary(t *TAF) string {
	var b strings.Builder
	if t.Station != "" {
		b.WriteString("Forecast for " + t.Station)
		if t.Validity != "" {
			b.WriteString(", " + lowerFirst(t.Validity))
		}
		b.WriteString(". ")
	}

	for _, p := range t.Periods {
		var conds []string
		if p.Wind != "" {
			if p.Wind == "Calm" {
				conds = append(conds, "wind calm")
			} else {
				conds = append(conds, "wind "+lowerFirst(p.Wind))
			}
		}
		if p.Visibility != "" {
			conds = append(conds, "visibility "+p.Visibility)
		}
		if len(p.Weather) > 0 {
			conds = append(conds, strings.ToLower(strings.Join(p.Weather, ", ")))
		}
		if len(p.Clouds) > 0 {
			conds = append(conds, "clouds "+strings.Join(p.Clouds, ", "))
		}
		if len(conds) == 0 {
			continue
		}

		label := p.Label
		if p.Time != "" {
			label += " " + lowerFirst(p.Time)
		}
		b.WriteString(label + ": " + strings.Join(conds, ", "))
		if p.FlightCategory != "" {
			b.WriteString(" (" + p.FlightCategory + ")")
		}
		b.WriteString(". ")
	}
	return strings.TrimSpace(b.String())
}
