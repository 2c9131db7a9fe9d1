package streetwidth

import (
	"regexp"
	"strconv"
	"strings"
)

// Bucket labels, ascending.
const (
	BucketUnder4  = "Under 4m"
	Bucket4To6    = "4–6m"
	Bucket6To8    = "6–8m"
	Bucket8To10   = "8–10m"
	BucketOver10  = "Over 10m"
	BucketUnknown = "Unknown"
)

var numberRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// Parse extracts a width in metres from text such as "7,5m" or "Đường 6m".
func Parse(text string) (float64, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}
	m := numberRegexp.FindStringSubmatch(strings.Replace(text, ",", ".", 1))
	if len(m) < 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Classify maps a width to its bucket. Lower bounds are inclusive.
func Classify(width float64) string {
	switch {
	case width < 4:
		return BucketUnder4
	case width < 6:
		return Bucket4To6
	case width < 8:
		return Bucket6To8
	case width < 10:
		return Bucket8To10
	default:
		return BucketOver10
	}
}

// Bucket parses and classifies in one step.
func Bucket(text string) string {
	w, ok := Parse(text)
	if !ok {
		return BucketUnknown
	}
	return Classify(w)
}

// Labels returns every bucket label in ascending order, Unknown last.
func Labels() []string {
	return []string{BucketUnder4, Bucket4To6, Bucket6To8, Bucket8To10, BucketOver10, BucketUnknown}
}
