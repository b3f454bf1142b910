package export

import "math"

const (
	plexRatingMax       = 10.0
	letterboxdRatingMin = 0.5
	letterboxdRatingMax = 5.0
)

// ConvertRating scales rating from [0, sourceMax] onto a scale topping out at
// targetMax, clamps the result into [targetMin, targetMax] and rounds it to
// one decimal. A nil rating stays nil.
func ConvertRating(rating *float64, sourceMax, targetMin, targetMax float64) *float64 {
	if rating == nil || sourceMax <= 0 {
		return nil
	}

	scaled := *rating * targetMax / sourceMax
	scaled = math.Max(targetMin, math.Min(targetMax, scaled))
	rounded := math.Round(scaled*10) / 10
	return &rounded
}

// LetterboxdRating converts a Plex user rating (0..10) to Letterboxd stars (0.5..5).
func LetterboxdRating(rating *float64) *float64 {
	return ConvertRating(rating, plexRatingMax, letterboxdRatingMin, letterboxdRatingMax)
}
