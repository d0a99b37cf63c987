package plan

import "math"

const (
	LbsPerKg = 2.20462
	CmPerIn  = 2.54
	CmPerFt  = 30.48
)

func KgToLbs(kg float64) float64 { return kg * LbsPerKg }
func LbsToKg(lbs float64) float64 { return lbs / LbsPerKg }

// FtInToCm converts feet and inches to centimeters.
func FtInToCm(ft, in float64) float64 {
	return ft*CmPerFt + in*CmPerIn
}

// CmToFtIn converts centimeters to whole feet and rounded inches.
func CmToFtIn(cm float64) (ft, in int) {
	totalIn := cm / CmPerIn
	f := math.Floor(totalIn / 12)
	i := math.Round(totalIn - f*12)
	if i == 12 {
		f++
		i = 0
	}
	return int(f), int(i)
}
