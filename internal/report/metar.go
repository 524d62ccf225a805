package report

import (
	"fmt"
	"strconv"
	"strings"
)

// METAR is the structured form of a surface observation. Fields that the
// report does not carry stay at their zero value; VisibilitySM and CeilingFt
// are -1 when not reported so flight-category math can tell "missing" from
// "zero".
type METAR struct {
	Raw            string           `json:"raw"`
	Station        string           `json:"station"`
	Time           string           `json:"time"`
	Wind           string           `json:"wind"`
	Visibility     string           `json:"visibility"`
	VisibilitySM   float64          `json:"visibility_sm"`
	Weather        []string         `json:"weather,omitempty"`
	Clouds         []string         `json:"clouds,omitempty"`
	CeilingFt      int              `json:"ceiling_ft"`
	Temperature    string           `json:"temperature,omitempty"`
	Dewpoint       string           `json:"dewpoint,omitempty"`
	Altimeter      string           `json:"altimeter,omitempty"`
	FlightCategory string           `json:"flight_category"`
	Remarks        []string         `json:"remarks,omitempty"`
	Summary        string           `json:"summary"`
	Tokens         []AnnotatedToken `json:"tokens"`
}

// ParseMETAR tokenizes and decodes a raw METAR into its structured form.
// It never fails: unparseable groups end up as unknown tokens and the
// structured fields they would have filled stay empty.
func ParseMETAR(raw string) *METAR {
	tokens := Tokenize(raw, MetarGrammar())
	m := &METAR{
		Raw:          strings.TrimSpace(raw),
		VisibilitySM: -1,
		CeilingFt:    -1,
		Tokens:       DecodeAll(tokens),
	}

	for _, at := range m.Tokens {
		tok := at.Token
		switch tok.Type {
		case TokenStation:
			if m.Station == "" {
				m.Station = tok.Text
			}
		case TokenTime:
			if m.Time == "" {
				m.Time = at.Explanation.Summary
			}
		case TokenWind:
			if m.Wind == "" {
				m.Wind = at.Explanation.Summary
			}
		case TokenVisibility:
			m.Visibility = at.Explanation.Summary
			if sm, ok := visibilityStatuteMiles(tok.Text); ok {
				m.VisibilitySM = sm
			}
		case TokenWeather:
			m.Weather = append(m.Weather, at.Explanation.Summary)
		case TokenCloud:
			m.Clouds = append(m.Clouds, at.Explanation.Summary)
			if base, ceiling := cloudBase(tok.Text); ceiling {
				if m.CeilingFt < 0 || base < m.CeilingFt {
					m.CeilingFt = base
				}
			}
		case TokenTempDewpoint:
			t, d, ok := strings.Cut(tok.Text, "/")
			if ok {
				if tv, valid := parseSignedTemp(t); valid {
					m.Temperature = fmt.Sprintf("%d°C", tv)
				}
				if dv, valid := parseSignedTemp(d); valid {
					m.Dewpoint = fmt.Sprintf("%d°C", dv)
				}
			}
		case TokenAltimeter:
			m.Altimeter = at.Explanation.Summary
		case TokenRemarks:
			m.Remarks = append(m.Remarks, at.Explanation.Summary)
		}
	}

	m.FlightCategory = flightCategory(m.VisibilitySM, m.CeilingFt)
	m.Summary = metarSummary(m)
	return m
}

// visibilityStatuteMiles converts a raw visibility group to statute miles
// for flight-category math. CAVOK and 9999 both count as 10+ SM.
func visibilityStatuteMiles(text string) (float64, bool) {
	if text == "CAVOK" || text == "9999" {
		return 10, true
	}
	if strings.HasSuffix(text, "SM") {
		body := strings.TrimSuffix(text, "SM")
		body = strings.TrimPrefix(strings.TrimPrefix(body, "M"), "P")
		return parseFractionMiles(body)
	}
	if len(text) == 4 {
		if meters, err := strconv.Atoi(text); err == nil {
			return float64(meters) / 1609.34, true
		}
	}
	if miles, err := strconv.Atoi(text); err == nil {
		return float64(miles), true
	}
	return 0, false
}

// cloudBase returns the layer base in feet and whether the layer counts as a
// ceiling (broken, overcast, or vertical visibility).
func cloudBase(text string) (int, bool) {
	m := reCloudParts.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	height, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	isCeiling := m[1] == "BKN" || m[1] == "OVC" || m[1] == "VV"
	return height * 100, isCeiling
}

// metarSummary builds the one-paragraph pilot summary from the structured
// fields that parsed successfully.
func metarSummary(m *METAR) string {
	var parts []string

	if m.Wind != "" {
		if m.Wind == "Calm" {
			parts = append(parts, "Wind calm")
		} else {
			parts = append(parts, "Wind "+lowerFirst(m.Wind))
		}
	}
	if m.Visibility != "" {
		parts = append(parts, "visibility "+m.Visibility)
	}
	if len(m.Weather) > 0 {
		parts = append(parts, strings.ToLower(strings.Join(m.Weather, ", ")))
	}
	if len(m.Clouds) > 0 {
		parts = append(parts, "clouds "+strings.Join(m.Clouds, ", "))
	}
	if m.Temperature != "" {
		t := "temperature " + m.Temperature
		if m.Dewpoint != "" {
			t += " with dewpoint " + m.Dewpoint
		}
		parts = append(parts, t)
	}
	if m.Altimeter != "" {
		parts = append(parts, "altimeter "+m.Altimeter)
	}

	summary := ""
	if len(parts) > 0 {
		summary = strings.ToUpper(parts[0][:1]) + parts[0][1:] + "."
		if len(parts) > 1 {
			summary = strings.ToUpper(parts[0][:1]) + parts[0][1:] + ", " + strings.Join(parts[1:], ", ") + "."
		}
	}

	if m.FlightCategory != "" {
		cat := fmt.Sprintf("%s conditions", m.FlightCategory)
		if name, ok := flightCategoryNames[m.FlightCategory]; ok {
			cat = fmt.Sprintf("%s (%s) conditions", m.FlightCategory, name)
		}
		if summary == "" {
			summary = cat + "."
		} else {
			summary += " " + cat + "."
		}
	}
	return summary
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
