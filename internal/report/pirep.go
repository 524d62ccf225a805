package report

import (
	"strings"
)

// PIREP is the structured form of a pilot report. All fields are optional;
// real-world PIREPs carry whatever the pilot gave flight service.
type PIREP struct {
	Raw         string           `json:"raw"`
	Station     string           `json:"station,omitempty"`
	Urgent      bool             `json:"urgent"`
	Location    string           `json:"location,omitempty"`
	Time        string           `json:"time,omitempty"`
	Altitude    string           `json:"altitude,omitempty"`
	Aircraft    string           `json:"aircraft,omitempty"`
	Sky         string           `json:"sky,omitempty"`
	Weather     string           `json:"weather,omitempty"`
	Temperature string           `json:"temperature,omitempty"`
	Wind        string           `json:"wind,omitempty"`
	Turbulence  string           `json:"turbulence,omitempty"`
	Icing       string           `json:"icing,omitempty"`
	Remarks     string           `json:"remarks,omitempty"`
	Summary     string           `json:"summary"`
	Tokens      []AnnotatedToken `json:"tokens"`
}

// ParsePIREP tokenizes and decodes a raw slash-delimited pilot report.
func ParsePIREP(raw string) *PIREP {
	tokens := Tokenize(raw, PirepGrammar())
	p := &PIREP{
		Raw:    strings.TrimSpace(raw),
		Tokens: DecodeAll(tokens),
	}

	for _, at := range p.Tokens {
		tok := at.Token
		switch tok.Type {
		case TokenPirepType:
			p.Urgent = strings.Contains(tok.Text, "UUA")
			if fields := strings.Fields(tok.Text); len(fields) == 2 {
				p.Station = fields[0]
			}
		case TokenLocation:
			p.Location = at.Explanation.Summary
		case TokenTime:
			p.Time = at.Explanation.Summary
		case TokenAltitude:
			p.Altitude = at.Explanation.Summary
		case TokenAircraft:
			p.Aircraft = at.Explanation.Summary
		case TokenSky:
			p.Sky = at.Explanation.Summary
		case TokenWeather:
			p.Weather = at.Explanation.Summary
		case TokenTemperature:
			p.Temperature = at.Explanation.Summary
		case TokenWind:
			p.Wind = at.Explanation.Summary
		case TokenTurbulence:
			p.Turbulence = at.Explanation.Summary
		case TokenIcing:
			p.Icing = at.Explanation.Summary
		case TokenRemarks:
			p.Remarks = at.Explanation.Summary
		}
	}

	p.Summary = pirepSummary(p)
	return p
}

func pirepSummary(p *PIREP) string {
	kind := "Routine pilot report"
	if p.Urgent {
		kind = "Urgent pilot report"
	}

	var parts []string
	if p.Aircraft != "" {
		parts = append(parts, "from a "+p.Aircraft)
	}
	if p.Location != "" {
		parts = append(parts, "near "+p.Location)
	}
	if p.Altitude != "" {
		parts = append(parts, "at "+p.Altitude)
	}
	if p.Time != "" {
		parts = append(parts, "at "+p.Time)
	}

	head := kind
	if len(parts) > 0 {
		head += " " + strings.Join(parts, " ")
	}
	head += "."

	var conds []string
	if p.Sky != "" {
		conds = append(conds, "sky "+p.Sky)
	}
	if p.Weather != "" {
		conds = append(conds, "weather "+p.Weather)
	}
	if p.Temperature != "" {
		conds = append(conds, "temperature "+p.Temperature)
	}
	if p.Wind != "" {
		conds = append(conds, "wind "+p.Wind)
	}
	if p.Turbulence != "" {
		conds = append(conds, "turbulence "+lowerFirst(p.Turbulence))
	}
	if p.Icing != "" {
		conds = append(conds, "icing "+lowerFirst(p.Icing))
	}
	if len(conds) > 0 {
		head += " Reported: " + strings.Join(conds, ", ") + "."
	}
	if p.Remarks != "" {
		head += " Remarks: " + p.Remarks + "."
	}
	return head
}
