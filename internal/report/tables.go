package report

// Static code tables shared by the tokenizer and decoder. All of these are
// read-only after package init and safe for concurrent use.

// weatherPhenomena maps the 2-character WMO/FAA weather codes (and the
// intensity/proximity prefixes) to descriptive text.
var weatherPhenomena = map[string]string{
	// Intensity / proximity prefixes
	"+":  "Heavy",
	"-":  "Light",
	"VC": "Vicinity",

	// Descriptors
	"MI": "Shallow",
	"PR": "Partial",
	"BC": "Patches",
	"DR": "Low Drifting",
	"BL": "Blowing",
	"SH": "Shower",
	"TS": "Thunderstorm",
	"FZ": "Freezing",

	// Precipitation
	"DZ": "Drizzle",
	"RA": "Rain",
	"SN": "Snow",
	"SG": "Snow Grains",
	"IC": "Ice Crystals",
	"PL": "Ice Pellets",
	"GR": "Hail",
	"GS": "Small Hail",
	"UP": "Unknown Precipitation",

	// Obscuration
	"FG": "Fog",
	"BR": "Mist",
	"HZ": "Haze",
	"VA": "Volcanic Ash",
	"DU": "Widespread Dust",
	"SA": "Sand",
	"PY": "Spray",
	"FU": "Smoke",

	// Other
	"SQ": "Squall",
	"PO": "Dust/Sand Whirls",
	"DS": "Duststorm",
	"SS": "Sandstorm",
	"FC": "Funnel Cloud/Tornado/Waterspout",
}

// cloudCoverCodes maps sky cover codes to descriptive text.
var cloudCoverCodes = map[string]string{
	"SKC": "Sky Clear",
	"CLR": "Clear (no clouds below 12,000 ft)",
	"NSC": "No Significant Clouds",
	"NCD": "No Clouds Detected",
	"FEW": "Few (1-2 oktas)",
	"SCT": "Scattered (3-4 oktas)",
	"BKN": "Broken (5-7 oktas)",
	"OVC": "Overcast (8 oktas)",
	"VV":  "Vertical Visibility (sky obscured)",
}

// cloudTypeCodes maps convective cloud type suffixes to descriptive text.
var cloudTypeCodes = map[string]string{
	"CB":  "Cumulonimbus",
	"TCU": "Towering Cumulus",
}

// cardinalDirections, indexed by round(degrees/22.5) mod 16.
var cardinalDirections = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// flightCategoryNames expands the standard flight category abbreviations.
var flightCategoryNames = map[string]string{
	"VFR":  "Visual Flight Rules",
	"MVFR": "Marginal Visual Flight Rules",
	"IFR":  "Instrument Flight Rules",
	"LIFR": "Low Instrument Flight Rules",
}

// cardinalDirection converts a wind direction in degrees true to a
// 16-point compass name.
func cardinalDirection(degrees int) string {
	idx := int(float64(degrees)/22.5+0.5) % 16
	return cardinalDirections[idx]
}

// flightCategory applies the standard ceiling/visibility bands. Either input
// may be negative to indicate "not reported"; the worse of the two governs.
// Thresholds: LIFR below 500 ft / 1 SM, IFR below 1000 ft / 3 SM, MVFR below
// 3000 ft / 5 SM, otherwise VFR.
func flightCategory(visibilitySM float64, ceilingFt int) string {
	hasVis := visibilitySM >= 0
	hasCeil := ceilingFt >= 0

	switch {
	case (hasCeil && ceilingFt < 500) || (hasVis && visibilitySM < 1):
		return "LIFR"
	case (hasCeil && ceilingFt < 1000) || (hasVis && visibilitySM < 3):
		return "IFR"
	case (hasCeil && ceilingFt < 3000) || (hasVis && visibilitySM < 5):
		return "MVFR"
	default:
		return "VFR"
	}
}

// ceilingCategory classifies a single ceiling-forming layer height.
func ceilingCategory(heightFt int) string {
	switch {
	case heightFt < 500:
		return "LIFR"
	case heightFt < 1000:
		return "IFR"
	case heightFt < 3000:
		return "MVFR"
	default:
		return "VFR"
	}
}
