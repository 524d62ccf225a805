package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Decode produces the human-readable explanation for a single token. It is a
// pure function of (Text, Type): no I/O, no shared state, safe to call
// concurrently. Malformed sub-fields inside a matched token degrade to an
// "unrecognized format" explanation for that token only; Decode never panics
// and never returns an error.
func Decode(tok Token) Explanation {
	switch tok.Type {
	case TokenReportType:
		return decodeReportType(tok.Text)
	case TokenStation:
		return decodeStation(tok.Text)
	case TokenTime:
		return decodeTime(tok.Text)
	case TokenValidity:
		return decodeValidity(tok.Text)
	case TokenWind:
		return decodeWind(tok.Text)
	case TokenVariableWind:
		return decodeVariableWind(tok.Text)
	case TokenVisibility:
		return decodeVisibility(tok.Text)
	case TokenRunwayVR:
		return decodeRunwayVR(tok.Text)
	case TokenWeather:
		return decodeWeather(tok.Text)
	case TokenCloud:
		return decodeCloud(tok.Text)
	case TokenTempDewpoint:
		return decodeTempDewpoint(tok.Text)
	case TokenTemp:
		return decodeTafTemp(tok.Text)
	case TokenAltimeter:
		return decodeAltimeter(tok.Text)
	case TokenWindShear:
		return decodeWindShear(tok.Text)
	case TokenChangeIndicator:
		return decodeChangeIndicator(tok.Text)
	case TokenChangeTime:
		return decodeChangeTime(tok.Text)
	case TokenRemarksIndicator:
		return Explanation{
			Title:             "Remarks",
			Description:       "Start of the remarks section. Everything after RMK is supplementary free text.",
			OperationalImpact: "Remarks may contain automated-station details, pressure data, and precise temperatures.",
			Summary:           "Remarks follow",
		}
	case TokenRemarks:
		return decodeRemark(tok.Text)
	case TokenPirepType:
		return decodePirepType(tok.Text)
	case TokenLocation:
		return decodePirepLocation(tok.Text)
	case TokenAltitude:
		return decodePirepAltitude(tok.Text)
	case TokenAircraft:
		return decodePirepAircraft(tok.Text)
	case TokenSky:
		return decodePirepSky(tok.Text)
	case TokenTemperature:
		return decodePirepTemperature(tok.Text)
	case TokenTurbulence:
		return decodePirepTurbulence(tok.Text)
	case TokenIcing:
		return decodePirepIcing(tok.Text)
	default:
		return unrecognized(tok.Text)
	}
}

// unrecognized is the catch-all explanation for tokens that matched no
// pattern, and the degradation target for malformed sub-fields.
func unrecognized(text string) Explanation {
	return Explanation{
		Title:             "Unrecognized",
		Description:       fmt.Sprintf("%q is not a recognized report component.", text),
		OperationalImpact: "None determined. Nonstandard or provider-specific content is common in real-world reports.",
		Summary:           "Unrecognized component",
	}
}

func unrecognizedFormat(text, what string) Explanation {
	return Explanation{
		Title:             what,
		Description:       fmt.Sprintf("%q resembles a %s group but its value could not be read.", text, strings.ToLower(what)),
		OperationalImpact: "Value not reported.",
		Summary:           "Unrecognized format",
	}
}

func decodeReportType(text string) Explanation {
	desc := map[string]string{
		"METAR": "Routine surface weather observation.",
		"SPECI": "Special (unscheduled) surface observation, issued when conditions changed significantly.",
		"TAF":   "Terminal Aerodrome Forecast.",
		"AMD":   "Amended forecast, replacing the previously issued TAF.",
		"COR":   "Corrected report.",
	}
	d, ok := desc[text]
	if !ok {
		return unrecognized(text)
	}
	return Explanation{
		Title:             "Report type: " + text,
		Description:       d,
		OperationalImpact: "Identifies which product and issuance rules apply to the rest of the report.",
		Summary:           text,
	}
}

func decodeStation(text string) Explanation {
	return Explanation{
		Title:             "Station: " + text,
		Description:       fmt.Sprintf("ICAO identifier of the reporting station (%s).", text),
		OperationalImpact: "All values in this report are observed at or forecast for this aerodrome.",
		Summary:           "Station " + text,
	}
}

// decodeTime handles the DDHHMMZ observation/issue time group and the PIREP
// "TM hhmm" element field.
func decodeTime(text string) Explanation {
	if strings.HasPrefix(text, "TM") {
		v := pirepValue(text, "TM")
		if len(v) == 4 {
			hour, e1 := strconv.Atoi(v[0:2])
			minute, e2 := strconv.Atoi(v[2:4])
			if e1 == nil && e2 == nil {
				return Explanation{
					Title:             fmt.Sprintf("Time: %02d:%02d UTC", hour, minute),
					Description:       fmt.Sprintf("Report made at %02d:%02d UTC.", hour, minute),
					OperationalImpact: "Check report age: pilot reports lose relevance quickly.",
					Summary:           fmt.Sprintf("%02d:%02dZ", hour, minute),
				}
			}
		}
		return unrecognizedFormat(text, "Time")
	}
	if len(text) < 7 {
		return unrecognizedFormat(text, "Time")
	}
	day, err1 := strconv.Atoi(text[0:2])
	hour, err2 := strconv.Atoi(text[2:4])
	minute, err3 := strconv.Atoi(text[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return unrecognizedFormat(text, "Time")
	}
	return Explanation{
		Title:             fmt.Sprintf("Time: day %d, %02d:%02dZ", day, hour, minute),
		Description:       fmt.Sprintf("Issued on day %d of the month at %02d:%02d UTC.", day, hour, minute),
		OperationalImpact: "Check report age: observations older than an hour may no longer reflect current conditions.",
		Summary:           fmt.Sprintf("Day %d at %02d:%02dZ", day, hour, minute),
	}
}

// decodeValidity handles the TAF DDHH/DDHH validity period.
func decodeValidity(text string) Explanation {
	parts := strings.Split(text, "/")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 4 {
		return unrecognizedFormat(text, "Validity period")
	}
	fd, e1 := strconv.Atoi(parts[0][0:2])
	fh, e2 := strconv.Atoi(parts[0][2:4])
	td, e3 := strconv.Atoi(parts[1][0:2])
	th, e4 := strconv.Atoi(parts[1][2:4])
	if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
		return unrecognizedFormat(text, "Validity period")
	}
	return Explanation{
		Title:             fmt.Sprintf("Valid: day %d %02d:00Z to day %d %02d:00Z", fd, fh, td, th),
		Description:       fmt.Sprintf("Forecast validity window: from day %d at %02d:00 UTC until day %d at %02d:00 UTC.", fd, fh, td, th),
		OperationalImpact: "Conditions outside this window are not covered by the forecast.",
		Summary:           fmt.Sprintf("Valid %02d%02dZ-%02d%02dZ", fd, fh, td, th),
	}
}

var (
	reWindVRB  = regexp.MustCompile(`^VRB(\d{2,3})(G(\d{2,3}))?(KT|MPS)$`)
	reWindFull = regexp.MustCompile(`^(\d{3})(\d{2,3})(G(\d{2,3}))?(KT|MPS)$`)
)

func windUnitName(unit string) string {
	if unit == "MPS" {
		return "meters per second"
	}
	return "knots"
}

// windImpact reproduces the documented operational thresholds: 8 kt for
// crosswind awareness, 15 for moderate, 20 (or 25 kt gusts) for strong, and
// 35 kt gusts for severe; a gust factor over 10 suggests low-level shear.
func windImpact(speed, gust int) string {
	gustFactor := 0
	if gust > 0 {
		gustFactor = gust - speed
	}

	var impact string
	switch {
	case gust >= 35:
		impact = "Severe gusts. Expect very challenging takeoff and landing conditions; consider delaying departure or diverting."
	case speed > 20 || gust > 25:
		impact = "Strong winds. Expect challenging takeoff and landing conditions; review aircraft crosswind limitations."
	case speed > 15:
		impact = "Moderate winds. Crosswind components may be significant on non-aligned runways."
	case speed > 8:
		impact = "Noticeable wind. Possible crosswind considerations for takeoff and landing."
	default:
		impact = "Light wind. Minimal operational impact."
	}

	if gustFactor > 10 {
		impact += fmt.Sprintf(" Significant wind shear possible with a %d knot gust factor.", gustFactor)
	} else if gustFactor > 5 {
		impact += fmt.Sprintf(" Be prepared for %d knot gusts on approach.", gustFactor)
	}
	return impact
}

func decodeWind(text string) Explanation {
	// PIREP wind fields arrive as "WV dddss".
	if strings.HasPrefix(text, "WV") {
		return decodePirepWind(text)
	}

	if text == "00000KT" {
		return Explanation{
			Title:             "Wind: Calm",
			Description:       "Wind calm: no measurable wind.",
			OperationalImpact: "No wind component for any runway. Expect runway selection by traffic flow or noise procedures.",
			Summary:           "Calm",
		}
	}

	if m := reWindVRB.FindStringSubmatch(text); m != nil {
		speed, err := strconv.Atoi(m[1])
		if err != nil {
			return unrecognizedFormat(text, "Wind")
		}
		unit := windUnitName(m[4])
		gust := 0
		desc := fmt.Sprintf("Variable direction at %d %s", speed, unit)
		if m[3] != "" {
			gust, err = strconv.Atoi(m[3])
			if err != nil {
				return unrecognizedFormat(text, "Wind")
			}
			desc += fmt.Sprintf(", gusting to %d %s", gust, unit)
		}
		return Explanation{
			Title:             "Wind: " + desc,
			Description:       desc + ". Direction is varying by 60° or more, or the speed is too low to determine a direction.",
			OperationalImpact: windImpact(speed, gust) + " Variable direction means the favored runway may change.",
			Summary:           desc,
		}
	}

	if m := reWindFull.FindStringSubmatch(text); m != nil {
		dir, e1 := strconv.Atoi(m[1])
		speed, e2 := strconv.Atoi(m[2])
		if e1 != nil || e2 != nil {
			return unrecognizedFormat(text, "Wind")
		}
		unit := windUnitName(m[5])
		gust := 0
		desc := fmt.Sprintf("From %d° at %d %s", dir, speed, unit)
		if m[4] != "" {
			var err error
			gust, err = strconv.Atoi(m[4])
			if err != nil {
				return unrecognizedFormat(text, "Wind")
			}
			desc += fmt.Sprintf(", gusting to %d %s", gust, unit)
		}
		return Explanation{
			Title:             "Wind: " + desc,
			Description:       fmt.Sprintf("%s (%s). Direction is in degrees true.", desc, cardinalDirection(dir)),
			OperationalImpact: windImpact(speed, gust),
			Summary:           desc,
		}
	}

	return unrecognizedFormat(text, "Wind")
}

func decodeVariableWind(text string) Explanation {
	parts := strings.Split(text, "V")
	if len(parts) != 2 {
		return unrecognizedFormat(text, "Variable wind")
	}
	from, e1 := strconv.Atoi(parts[0])
	to, e2 := strconv.Atoi(parts[1])
	if e1 != nil || e2 != nil {
		return unrecognizedFormat(text, "Variable wind")
	}
	return Explanation{
		Title:             fmt.Sprintf("Wind varying %d° to %d°", from, to),
		Description:       fmt.Sprintf("Wind direction is varying between %d° and %d° true.", from, to),
		OperationalImpact: "Expect shifting crosswind components; the favored runway may change without notice.",
		Summary:           fmt.Sprintf("Varying %d°-%d°", from, to),
	}
}

// parseFractionMiles reads whole-or-fractional statute mile strings such as
// "2", "1/2", "1 1/2", or "2.5". It deliberately parses numerator and
// denominator explicitly instead of evaluating the text as an expression.
func parseFractionMiles(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	total := 0.0
	fields := strings.Fields(s)
	if len(fields) == 2 {
		whole, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, false
		}
		total = whole
		s = fields[1]
	} else if len(fields) > 2 {
		return 0, false
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, e1 := strconv.ParseFloat(num, 64)
		d, e2 := strconv.ParseFloat(den, 64)
		if e1 != nil || e2 != nil || d == 0 {
			return 0, false
		}
		return total + n/d, true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return total + v, true
}

// visibilityImpactSM buckets a statute-mile distance into the documented
// flight-worthiness tiers (1 / 3 / 5 SM).
func visibilityImpactSM(sm float64) string {
	switch {
	case sm < 1:
		return "Poor visibility, below VFR minimums. Approach and landing will require precision instruments."
	case sm < 3:
		return "Reduced visibility, marginal conditions. Instrument approach required."
	case sm < 5:
		return "Moderate visibility, sufficient for a visual approach but exercise caution."
	default:
		return "Excellent visibility for visual operations."
	}
}

// visibilityImpactMeters buckets a meter distance (1600 / 5000 / 8000 m).
func visibilityImpactMeters(meters int) string {
	switch {
	case meters < 1600:
		return "Poor visibility, below VFR minimums. Approach and landing will require precision instruments."
	case meters < 5000:
		return "Reduced visibility, marginal conditions. Instrument approach required."
	case meters < 8000:
		return "Moderate visibility, sufficient for a visual approach but exercise caution."
	default:
		return "Excellent visibility for visual operations."
	}
}

func decodeVisibility(text string) Explanation {
	if text == "CAVOK" {
		return Explanation{
			Title:             "Visibility: CAVOK",
			Description:       "Ceiling and visibility OK: visibility 10km or more, no cloud below 5000 ft (or below the highest minimum sector altitude), and no significant weather.",
			OperationalImpact: "Excellent conditions for visual operations.",
			Summary:           "10km or more, no significant weather or cloud below 5000ft",
		}
	}

	if strings.HasSuffix(text, "SM") {
		body := strings.TrimSuffix(text, "SM")
		qualifier := ""
		if strings.HasPrefix(body, "M") {
			qualifier = "less than "
			body = body[1:]
		} else if strings.HasPrefix(body, "P") {
			qualifier = "greater than "
			body = body[1:]
		}
		sm, ok := parseFractionMiles(body)
		if !ok {
			return unrecognizedFormat(text, "Visibility")
		}
		display := strings.TrimSuffix(text, "SM")
		display = strings.TrimPrefix(strings.TrimPrefix(display, "M"), "P")
		return Explanation{
			Title:             fmt.Sprintf("Visibility: %s%s statute miles", qualifier, display),
			Description:       fmt.Sprintf("Horizontal visibility of %s%s statute miles.", qualifier, display),
			OperationalImpact: visibilityImpactSM(sm),
			Summary:           fmt.Sprintf("%s%s SM", qualifier, display),
		}
	}

	// Bare digits: a 4-digit group is meters; a 1-2 digit group is the whole
	// mile portion of a split fractional value like "1 1/2SM".
	if len(text) == 4 {
		meters, err := strconv.Atoi(text)
		if err != nil {
			return unrecognizedFormat(text, "Visibility")
		}
		desc := fmt.Sprintf("Horizontal visibility of %d meters.", meters)
		summary := fmt.Sprintf("%d meters", meters)
		if meters == 9999 {
			desc = "Horizontal visibility of 10 kilometers or more."
			summary = "10 km or more"
		}
		return Explanation{
			Title:             "Visibility: " + summary,
			Description:       desc,
			OperationalImpact: visibilityImpactMeters(meters),
			Summary:           summary,
		}
	}

	miles, err := strconv.Atoi(text)
	if err != nil {
		return unrecognizedFormat(text, "Visibility")
	}
	return Explanation{
		Title:             fmt.Sprintf("Visibility: %d statute miles", miles),
		Description:       fmt.Sprintf("Whole-mile portion of the visibility (%d statute miles); a fractional part may follow.", miles),
		OperationalImpact: visibilityImpactSM(float64(miles)),
		Summary:           fmt.Sprintf("%d SM", miles),
	}
}

var reRunwayVRParts = regexp.MustCompile(`^R(\d{2}[LRC]?)/([MP])?(\d{4})(V([MP])?(\d{4}))?(FT)?([UDN])?$`)

func decodeRunwayVR(text string) Explanation {
	m := reRunwayVRParts.FindStringSubmatch(text)
	if m == nil {
		return unrecognizedFormat(text, "Runway visual range")
	}
	runway := m[1]
	unit := "meters"
	if m[7] == "FT" {
		unit = "feet"
	}

	qual := func(q string) string {
		switch q {
		case "M":
			return "less than "
		case "P":
			return "greater than "
		}
		return ""
	}

	rng := fmt.Sprintf("%s%s %s", qual(m[2]), strings.TrimLeft(m[3], "0"), unit)
	if m[4] != "" {
		rng = fmt.Sprintf("varying from %s%s to %s%s %s", qual(m[2]), strings.TrimLeft(m[3], "0"), qual(m[5]), strings.TrimLeft(m[6], "0"), unit)
	}

	trend := ""
	switch m[8] {
	case "U":
		trend = " Trend: improving."
	case "D":
		trend = " Trend: deteriorating."
	case "N":
		trend = " Trend: no change."
	}

	return Explanation{
		Title:             fmt.Sprintf("RVR runway %s: %s", runway, rng),
		Description:       fmt.Sprintf("Runway visual range for runway %s is %s.%s", runway, rng, trend),
		OperationalImpact: "RVR is the controlling visibility for instrument approach minimums on this runway.",
		Summary:           fmt.Sprintf("Runway %s RVR %s", runway, rng),
	}
}

// decodeWeather decomposes a present-weather group into its intensity
// prefix and repeated 2-character phenomenon codes. Unknown chunks pass
// through verbatim rather than failing the whole group.
func decodeWeather(text string) Explanation {
	if text == "NSW" {
		return Explanation{
			Title:             "No Significant Weather",
			Description:       "No significant weather expected; previously forecast weather has ended.",
			OperationalImpact: "Improving conditions.",
			Summary:           "No significant weather",
		}
	}
	if strings.HasPrefix(text, "WX") {
		// PIREP weather field: "WX FV03SM HZ FU"
		return Explanation{
			Title:             "Flight weather: " + strings.TrimSpace(strings.TrimPrefix(text, "WX")),
			Description:       "Weather observed in flight: " + strings.TrimSpace(strings.TrimPrefix(text, "WX")) + ".",
			OperationalImpact: "Conditions reported by the pilot at their position and altitude.",
			Summary:           strings.TrimSpace(strings.TrimPrefix(text, "WX")),
		}
	}

	rest := text
	intensity := ""
	switch {
	case strings.HasPrefix(rest, "+"):
		intensity = "Heavy"
		rest = rest[1:]
	case strings.HasPrefix(rest, "-"):
		intensity = "Light"
		rest = rest[1:]
	}
	if strings.HasPrefix(rest, "VC") {
		if intensity != "" {
			intensity += " in Vicinity"
		} else {
			intensity = "Vicinity"
		}
		rest = rest[2:]
	}

	var words []string
	for i := 0; i+2 <= len(rest); i += 2 {
		code := rest[i : i+2]
		if name, ok := weatherPhenomena[code]; ok {
			words = append(words, name)
		} else {
			words = append(words, code)
		}
	}
	if len(words) == 0 {
		return unrecognizedFormat(text, "Weather")
	}

	phrase := strings.Join(words, " ")
	if intensity != "" {
		phrase = intensity + " " + phrase
	}

	var impacts []string
	if strings.Contains(rest, "TS") {
		impacts = append(impacts, "expect turbulence and possible wind shear")
	}
	if strings.Contains(rest, "FZ") {
		impacts = append(impacts, "icing conditions likely")
	}
	if strings.Contains(rest, "SN") {
		impacts = append(impacts, "possible runway contamination and reduced braking action")
	}
	if strings.Contains(rest, "FG") || strings.Contains(rest, "BR") {
		impacts = append(impacts, "reduced visual references on approach")
	}
	if strings.Contains(rest, "RA") || strings.Contains(rest, "DZ") {
		impacts = append(impacts, "wet runway conditions")
	}
	impact := "Monitor for changes."
	if len(impacts) > 0 {
		impact = strings.ToUpper(impacts[0][:1]) + impacts[0][1:] + "."
		for _, extra := range impacts[1:] {
			impact += " " + strings.ToUpper(extra[:1]) + extra[1:] + "."
		}
	}

	return Explanation{
		Title:             "Weather: " + phrase,
		Description:       fmt.Sprintf("Present weather: %s.", phrase),
		OperationalImpact: impact,
		Summary:           phrase,
	}
}

var reCloudParts = regexp.MustCompile(`^(VV|FEW|SCT|BKN|OVC)(\d{3})(CB|TCU)?$`)

func decodeCloud(text string) Explanation {
	if name, ok := cloudCoverCodes[text]; ok {
		return Explanation{
			Title:             "Sky: " + name,
			Description:       fmt.Sprintf("%s (%s).", name, text),
			OperationalImpact: "No cloud layer restricts visual operations.",
			Summary:           name,
		}
	}

	m := reCloudParts.FindStringSubmatch(text)
	if m == nil {
		return unrecognizedFormat(text, "Cloud layer")
	}

	cover := m[1]
	height, err := strconv.Atoi(m[2])
	if err != nil {
		return unrecognizedFormat(text, "Cloud layer")
	}
	base := height * 100
	coverName := cloudCoverCodes[cover]

	desc := fmt.Sprintf("%s at %d feet AGL.", coverName, base)
	summary := fmt.Sprintf("%s %d ft", cover, base)
	if m[3] != "" {
		typeName := cloudTypeCodes[m[3]]
		desc = fmt.Sprintf("%s at %d feet AGL (%s).", coverName, base, typeName)
		summary += " " + typeName
	}

	impact := "Layer does not form a ceiling."
	if cover == "BKN" || cover == "OVC" || cover == "VV" {
		impact = fmt.Sprintf("Ceiling at %d feet: %s conditions.", base, ceilingCategory(base))
	}
	switch m[3] {
	case "CB":
		impact += " Cumulonimbus present: embedded thunderstorms, severe turbulence possible."
	case "TCU":
		impact += " Towering cumulus: building convection, potential for moderate turbulence."
	}

	return Explanation{
		Title:             "Clouds: " + summary,
		Description:       desc,
		OperationalImpact: impact,
		Summary:           summary,
	}
}

// parseSignedTemp reads the M-prefixed temperature convention ("M05" = -5).
func parseSignedTemp(s string) (int, bool) {
	neg := strings.HasPrefix(s, "M")
	v, err := strconv.Atoi(strings.TrimPrefix(s, "M"))
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// decodeTempDewpoint covers the METAR temperature/dewpoint group and its
// derived heuristics: fog risk from the spread, airframe icing risk from the
// temperature band, and carburetor icing from the combination.
func decodeTempDewpoint(text string) Explanation {
	tempStr, dewStr, ok := strings.Cut(text, "/")
	if !ok {
		return unrecognizedFormat(text, "Temperature/dewpoint")
	}
	temp, ok1 := parseSignedTemp(tempStr)
	dew, ok2 := parseSignedTemp(dewStr)
	if !ok1 || !ok2 {
		return unrecognizedFormat(text, "Temperature/dewpoint")
	}

	spread := temp - dew

	fogRisk := "unlikely"
	switch {
	case spread <= 2:
		fogRisk = "very likely"
	case spread <= 5:
		fogRisk = "possible"
	}

	icingRisk := "low"
	switch {
	case temp <= 0 && temp >= -12:
		icingRisk = "moderate to high"
	case temp < -12:
		icingRisk = "reduced but possible"
	}

	carbIcing := ""
	if temp > 0 && temp <= 15 && spread <= 8 {
		if temp <= 5 {
			carbIcing = " Serious carburetor icing risk at glide power."
		} else {
			carbIcing = " Carburetor icing possible at reduced power."
		}
	}

	impact := fmt.Sprintf("Spread of %d°C: fog formation %s. Airframe icing risk in visible moisture: %s.%s",
		spread, fogRisk, icingRisk, carbIcing)

	return Explanation{
		Title:             fmt.Sprintf("Temperature %d°C, dewpoint %d°C", temp, dew),
		Description:       fmt.Sprintf("Air temperature %d°C, dewpoint %d°C, spread %d°C.", temp, dew, spread),
		OperationalImpact: impact,
		Summary:           fmt.Sprintf("%d°C / %d°C", temp, dew),
	}
}

var reTafTempParts = regexp.MustCompile(`^T([XN])(M?\d{2})/(\d{2})(\d{2})Z$`)

func decodeTafTemp(text string) Explanation {
	m := reTafTempParts.FindStringSubmatch(text)
	if m == nil {
		return unrecognizedFormat(text, "Temperature forecast")
	}
	temp, ok := parseSignedTemp(m[2])
	if !ok {
		return unrecognizedFormat(text, "Temperature forecast")
	}
	kind := "maximum"
	if m[1] == "N" {
		kind = "minimum"
	}
	return Explanation{
		Title:             fmt.Sprintf("Forecast %s temperature: %d°C", kind, temp),
		Description:       fmt.Sprintf("Forecast %s temperature of %d°C at day %s, %s:00 UTC.", kind, temp, m[3], m[4]),
		OperationalImpact: "Use for density-altitude and icing planning across the forecast period.",
		Summary:           fmt.Sprintf("%s %d°C", strings.ToUpper(kind[:1])+kind[1:], temp),
	}
}

const (
	standardInHg = 29.92
	standardHPa  = 1013.25
)

func decodeAltimeter(text string) Explanation {
	if len(text) != 5 {
		return unrecognizedFormat(text, "Altimeter")
	}
	raw, err := strconv.Atoi(text[1:])
	if err != nil {
		return unrecognizedFormat(text, "Altimeter")
	}

	var (
		value    float64
		unit     string
		diff     float64
		altError float64
	)
	switch text[0] {
	case 'A':
		value = float64(raw) / 100
		unit = "inHg"
		diff = value - standardInHg
		altError = diff * 1000
	case 'Q':
		value = float64(raw)
		unit = "hPa"
		diff = value - standardHPa
		altError = diff * 27
	default:
		return unrecognizedFormat(text, "Altimeter")
	}

	var hint string
	if diff < 0 {
		hint = "Pressure below standard: flying from high to low, look out below. True altitude is lower than indicated without the correct setting."
	} else if diff > 0 {
		hint = "Pressure above standard: true altitude is higher than indicated without the correct setting."
	} else {
		hint = "Standard pressure."
	}

	return Explanation{
		Title:             fmt.Sprintf("Altimeter: %.2f %s", value, unit),
		Description:       fmt.Sprintf("Altimeter setting %.2f %s (standard is %.2f %s).", value, unit, pick(unit == "inHg", standardInHg, standardHPa), unit),
		OperationalImpact: fmt.Sprintf("%s Approximate altitude error if unset: %.0f feet.", hint, abs(altError)),
		Summary:           fmt.Sprintf("%.2f %s", value, unit),
	}
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

var reWindShearParts = regexp.MustCompile(`^WS(\d{3})/(VRB|\d{3})(\d{2,3})(G(\d{2,3}))?(KT|MPS)$`)

func decodeWindShear(text string) Explanation {
	m := reWindShearParts.FindStringSubmatch(text)
	if m == nil {
		return unrecognizedFormat(text, "Wind shear")
	}
	height, e1 := strconv.Atoi(m[1])
	speed, e2 := strconv.Atoi(m[3])
	if e1 != nil || e2 != nil {
		return unrecognizedFormat(text, "Wind shear")
	}
	dir := m[2]
	if dir != "VRB" {
		dir += "°"
	}
	return Explanation{
		Title:             fmt.Sprintf("Wind shear at %d ft", height*100),
		Description:       fmt.Sprintf("Wind shear layer at %d feet AGL: wind from %s at %d %s.", height*100, dir, speed, windUnitName(m[6])),
		OperationalImpact: "Expect airspeed fluctuations on climb-out or approach through the shear layer.",
		Summary:           fmt.Sprintf("Shear at %d ft", height*100),
	}
}

// decodeChangeIndicator resolves the TAF change-group literals with their
// indicator-specific sub-descriptions.
func decodeChangeIndicator(text string) Explanation {
	switch {
	case text == "BECMG":
		return Explanation{
			Title:             "Becoming",
			Description:       "Gradual and permanent change in conditions; the new conditions persist after the change period.",
			OperationalImpact: "Plan for the new conditions from the end of the change period onward.",
			Summary:           "Gradual permanent change",
		}
	case text == "TEMPO":
		return Explanation{
			Title:             "Temporarily",
			Description:       "Temporary fluctuation in conditions, with each occurrence lasting less than 1 hour.",
			OperationalImpact: "Expect intermittent periods of these conditions within the stated window.",
			Summary:           "Temporary fluctuations under 1 hour",
		}
	case strings.HasPrefix(text, "PROB"):
		pct, err := strconv.Atoi(strings.TrimPrefix(text, "PROB"))
		if err != nil {
			return unrecognizedFormat(text, "Change indicator")
		}
		return Explanation{
			Title:             fmt.Sprintf("%d%% Probability", pct),
			Description:       fmt.Sprintf("A %d%% probability that the following conditions occur during the stated period.", pct),
			OperationalImpact: "Carry contingency fuel or an alternate if the probable conditions are below your minimums.",
			Summary:           fmt.Sprintf("%d%% probability", pct),
		}
	case strings.HasPrefix(text, "FM") && len(text) >= 8:
		day, e1 := strconv.Atoi(text[2:4])
		hour, e2 := strconv.Atoi(text[4:6])
		minute, e3 := strconv.Atoi(text[6:8])
		if e1 != nil || e2 != nil || e3 != nil {
			return unrecognizedFormat(text, "Change indicator")
		}
		desc := fmt.Sprintf("From: rapid change at day %d, %02d:%02d UTC", day, hour, minute)
		return Explanation{
			Title:             desc,
			Description:       desc + ". All prior conditions are replaced from this time.",
			OperationalImpact: "Conditions switch quickly at the stated time; plan arrivals around the transition.",
			Summary:           desc,
		}
	}
	return unrecognizedFormat(text, "Change indicator")
}

func decodeChangeTime(text string) Explanation {
	if len(text) < 6 {
		return unrecognizedFormat(text, "Change time")
	}
	word := "At"
	if strings.HasPrefix(text, "TL") {
		word = "Until"
	}
	hour, e1 := strconv.Atoi(text[2:4])
	minute, e2 := strconv.Atoi(text[4:6])
	if e1 != nil || e2 != nil {
		return unrecognizedFormat(text, "Change time")
	}
	return Explanation{
		Title:             fmt.Sprintf("%s %02d:%02d UTC", word, hour, minute),
		Description:       fmt.Sprintf("%s %02d:%02d UTC.", word, hour, minute),
		OperationalImpact: "Bounds the change group it accompanies.",
		Summary:           fmt.Sprintf("%s %02d%02dZ", word, hour, minute),
	}
}

var (
	reRemarkSLP    = regexp.MustCompile(`^SLP(\d{3})$`)
	reRemarkPrecip = regexp.MustCompile(`^P(\d{4})$`)
	reRemarkTGroup = regexp.MustCompile(`^T([01])(\d{3})([01])(\d{3})$`)
)

// decodeRemark best-effort decodes the common remark prefixes and passes
// everything else through as generic remark text.
func decodeRemark(text string) Explanation {
	if strings.HasPrefix(text, "RM ") {
		v := pirepValue(text, "RM")
		return Explanation{
			Title:             "Remarks: " + v,
			Description:       fmt.Sprintf("Pilot remarks: %s.", v),
			OperationalImpact: "Free-text detail from the reporting pilot.",
			Summary:           v,
		}
	}

	switch text {
	case "AO1":
		return Explanation{
			Title:             "Automated station (AO1)",
			Description:       "Automated observing station without a precipitation discriminator.",
			OperationalImpact: "The station cannot distinguish precipitation type (rain vs. snow).",
			Summary:           "Automated, no precipitation discriminator",
		}
	case "AO2":
		return Explanation{
			Title:             "Automated station (AO2)",
			Description:       "Automated observing station with a precipitation discriminator.",
			OperationalImpact: "The station can distinguish precipitation type.",
			Summary:           "Automated, with precipitation discriminator",
		}
	}

	if m := reRemarkSLP.FindStringSubmatch(text); m != nil {
		digits, err := strconv.Atoi(m[1])
		if err != nil {
			return unrecognizedFormat(text, "Sea-level pressure")
		}
		// Values below 500 are prefixed "10", others "9"; the final digit is
		// tenths, e.g. SLP187 -> 1018.7 hPa, SLP982 -> 998.2 hPa.
		var hpa float64
		if digits < 500 {
			hpa = 1000 + float64(digits)/10
		} else {
			hpa = 900 + float64(digits)/10
		}
		return Explanation{
			Title:             fmt.Sprintf("Sea-level pressure: %.1f hPa", hpa),
			Description:       fmt.Sprintf("Sea-level pressure %.1f hPa.", hpa),
			OperationalImpact: "Used for synoptic analysis; complements the altimeter setting.",
			Summary:           fmt.Sprintf("%.1f hPa", hpa),
		}
	}

	if m := reRemarkPrecip.FindStringSubmatch(text); m != nil {
		hundredths, err := strconv.Atoi(m[1])
		if err != nil {
			return unrecognizedFormat(text, "Precipitation")
		}
		return Explanation{
			Title:             fmt.Sprintf("Hourly precipitation: %.2f in", float64(hundredths)/100),
			Description:       fmt.Sprintf("%.2f inches of precipitation in the past hour.", float64(hundredths)/100),
			OperationalImpact: "Recent precipitation: expect wet surfaces.",
			Summary:           fmt.Sprintf("%.2f in/hr", float64(hundredths)/100),
		}
	}

	if m := reRemarkTGroup.FindStringSubmatch(text); m != nil {
		temp, e1 := strconv.Atoi(m[2])
		dew, e2 := strconv.Atoi(m[4])
		if e1 == nil && e2 == nil {
			t := float64(temp) / 10
			d := float64(dew) / 10
			if m[1] == "1" {
				t = -t
			}
			if m[3] == "1" {
				d = -d
			}
			return Explanation{
				Title:             fmt.Sprintf("Precise temperature: %.1f°C / %.1f°C", t, d),
				Description:       fmt.Sprintf("Temperature %.1f°C and dewpoint %.1f°C to tenths of a degree.", t, d),
				OperationalImpact: "Higher-precision values than the body of the report.",
				Summary:           fmt.Sprintf("%.1f°C / %.1f°C", t, d),
			}
		}
	}

	return Explanation{
		Title:             "Remark",
		Description:       fmt.Sprintf("Remark: %s.", text),
		OperationalImpact: "Supplementary information; not decoded.",
		Summary:           text,
	}
}

// PIREP field decoders. Fields arrive with their 2-letter element code still
// attached, e.g. "TP BE20".

func pirepValue(text, code string) string {
	return strings.TrimSpace(strings.TrimPrefix(text, code))
}

func decodePirepType(text string) Explanation {
	urgent := strings.Contains(text, "UUA")
	if urgent {
		return Explanation{
			Title:             "Urgent pilot report (UUA)",
			Description:       "Urgent PIREP: the pilot reported hazardous conditions such as severe turbulence or severe icing.",
			OperationalImpact: "Treat the reported hazard as significant for any flight in the area.",
			Summary:           "Urgent PIREP",
		}
	}
	return Explanation{
		Title:             "Routine pilot report (UA)",
		Description:       "Routine PIREP of in-flight observed conditions.",
		OperationalImpact: "First-hand conditions report; more current than surface observations at altitude.",
		Summary:           "Routine PIREP",
	}
}

func decodePirepLocation(text string) Explanation {
	loc := pirepValue(text, "OV")
	return Explanation{
		Title:             "Location: " + loc,
		Description:       fmt.Sprintf("Position of the report, relative to a navaid or fix: %s.", loc),
		OperationalImpact: "The reported conditions apply at this position.",
		Summary:           loc,
	}
}

func decodePirepAltitude(text string) Explanation {
	v := strings.TrimPrefix(text, "FL")
	if n, err := strconv.Atoi(v); err == nil {
		return Explanation{
			Title:             fmt.Sprintf("Altitude: %d ft MSL", n*100),
			Description:       fmt.Sprintf("Reported at %d feet MSL (FL%s).", n*100, v),
			OperationalImpact: "Conditions apply at this altitude; they may differ above or below.",
			Summary:           fmt.Sprintf("%d ft", n*100),
		}
	}
	desc := map[string]string{
		"DUR":   "During",
		"DURC":  "During climb",
		"DURD":  "During descent",
		"DURG":  "During glide",
		"DURGD": "During glide/descent",
		"UNKN":  "Altitude unknown",
	}
	if d, ok := desc[v]; ok {
		return Explanation{
			Title:             "Altitude: " + d,
			Description:       d + "; no single reference altitude applies.",
			OperationalImpact: "Conditions were encountered across a range of altitudes.",
			Summary:           d,
		}
	}
	return unrecognizedFormat(text, "Altitude")
}

func decodePirepAircraft(text string) Explanation {
	ac := pirepValue(text, "TP")
	return Explanation{
		Title:             "Aircraft: " + ac,
		Description:       fmt.Sprintf("Reporting aircraft type: %s.", ac),
		OperationalImpact: "Scale the reported turbulence to your aircraft: what is moderate to a light aircraft may be light to a transport.",
		Summary:           ac,
	}
}

func decodePirepSky(text string) Explanation {
	sky := pirepValue(text, "SK")
	return Explanation{
		Title:             "Sky: " + sky,
		Description:       fmt.Sprintf("Sky condition observed in flight: %s.", sky),
		OperationalImpact: "Cloud bases and tops as seen from the aircraft.",
		Summary:           sky,
	}
}

func decodePirepTemperature(text string) Explanation {
	v := pirepValue(text, "TA")
	temp, ok := parseSignedTemp(v)
	if !ok {
		return unrecognizedFormat(text, "Temperature")
	}
	impact := "Above freezing at altitude."
	if temp <= 0 {
		impact = "At or below freezing: icing possible in visible moisture."
	}
	return Explanation{
		Title:             fmt.Sprintf("Outside air temperature: %d°C", temp),
		Description:       fmt.Sprintf("Outside air temperature of %d°C at the reported altitude.", temp),
		OperationalImpact: impact,
		Summary:           fmt.Sprintf("%d°C", temp),
	}
}

func decodePirepWind(text string) Explanation {
	v := pirepValue(text, "WV")
	if len(v) >= 5 {
		if dir, err := strconv.Atoi(v[0:3]); err == nil {
			if spd, err := strconv.Atoi(strings.TrimSuffix(v[3:], "KT")); err == nil {
				return Explanation{
					Title:             fmt.Sprintf("Wind aloft: from %d° at %d knots", dir, spd),
					Description:       fmt.Sprintf("Wind at the reported altitude: from %d° at %d knots.", dir, spd),
					OperationalImpact: "Winds aloft observed by the aircraft; useful for groundspeed planning.",
					Summary:           fmt.Sprintf("%d° at %d kt", dir, spd),
				}
			}
		}
	}
	return unrecognizedFormat(text, "Wind")
}

// turbulenceIntensity maps the PIREP intensity vocabulary, checking combined
// ranges before single terms.
func turbulenceIntensity(s string) string {
	u := strings.ToUpper(s)
	switch {
	case strings.Contains(u, "NEG"):
		return "None"
	case strings.Contains(u, "LGT") && strings.Contains(u, "MOD"):
		return "Light to moderate"
	case strings.Contains(u, "MOD") && strings.Contains(u, "SEV"):
		return "Moderate to severe"
	case strings.Contains(u, "SEV"):
		return "Severe"
	case strings.Contains(u, "MOD"):
		return "Moderate"
	case strings.Contains(u, "LGT"):
		return "Light"
	case strings.Contains(u, "TRC"):
		return "Trace"
	}
	return "Unknown intensity"
}

func decodePirepTurbulence(text string) Explanation {
	v := pirepValue(text, "TB")
	intensity := turbulenceIntensity(v)

	freq := ""
	u := strings.ToUpper(v)
	switch {
	case strings.Contains(u, "CONS"):
		freq = ", continuous"
	case strings.Contains(u, "INTMT") || strings.Contains(u, "INTRMT"):
		freq = ", intermittent"
	case strings.Contains(u, "OCNL"):
		freq = ", occasional"
	}

	impact := "Reported turbulence; expect similar or different intensity depending on aircraft size."
	if intensity == "None" {
		impact = "Smooth ride reported."
	} else if strings.Contains(intensity, "Severe") {
		impact = "Severe turbulence reported: avoid the area and altitude if possible."
	}

	return Explanation{
		Title:             fmt.Sprintf("Turbulence: %s%s", intensity, freq),
		Description:       fmt.Sprintf("Turbulence report: %s%s (%s).", intensity, freq, v),
		OperationalImpact: impact,
		Summary:           intensity + freq,
	}
}

func decodePirepIcing(text string) Explanation {
	v := pirepValue(text, "IC")
	intensity := turbulenceIntensity(v)

	iceType := ""
	u := strings.ToUpper(v)
	switch {
	case strings.Contains(u, "RIME"):
		iceType = " rime"
	case strings.Contains(u, "CLEAR"):
		iceType = " clear"
	case strings.Contains(u, "MIXED"):
		iceType = " mixed"
	}

	impact := "Icing reported: verify anti-ice/de-ice equipment before operating in the area."
	if intensity == "None" {
		impact = "No icing reported."
	} else if strings.Contains(intensity, "Severe") {
		impact = "Severe icing reported: de-ice equipment may not keep up. Avoid the area and altitude."
	}

	return Explanation{
		Title:             fmt.Sprintf("Icing: %s%s", intensity, iceType),
		Description:       fmt.Sprintf("Icing report: %s%s icing (%s).", intensity, iceType, v),
		OperationalImpact: impact,
		Summary:           strings.TrimSpace(intensity + iceType),
	}
}
