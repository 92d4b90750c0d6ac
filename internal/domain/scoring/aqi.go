package scoring

// EPA PM2.5 breakpoints (µg/m³ averaged over 24h) and the matching AQI bands.
// Piecewise-linear interpolation within each band; readings above the highest
// band clamp to 500.
type aqiBand struct {
	cLo, cHi float64
	aqiLo    float64
	aqiHi    float64
	label    string
}

var pm25Bands = []aqiBand{
	{0.0, 12.0, 0, 50, "Good"},
	{12.1, 35.4, 51, 100, "Moderate"},
	{35.5, 55.4, 101, 150, "Unhealthy for Sensitive Groups"},
	{55.5, 150.4, 151, 200, "Unhealthy"},
	{150.5, 250.4, 201, 300, "Very Unhealthy"},
	{250.5, 500.4, 301, 500, "Hazardous"},
}

// AQIFromPM25 converts a PM2.5 concentration to the EPA AQI value and its
// band label. Negative input is treated as zero.
func AQIFromPM25(pm25 float64) (float64, string) {
	if pm25 <= 0 {
		return 0, pm25Bands[0].label
	}
	for _, b := range pm25Bands {
		if pm25 <= b.cHi {
			aqi := b.aqiLo + (pm25-b.cLo)/(b.cHi-b.cLo)*(b.aqiHi-b.aqiLo)
			return aqi, b.label
		}
	}
	return 500, pm25Bands[len(pm25Bands)-1].label
}

// AQINormalized maps an AQI value onto [0,1] for use as a sub-score.
func AQINormalized(aqi float64) float64 {
	return Clamp(aqi/500, 0, 1)
}
