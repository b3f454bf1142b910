package export

// Columns is the Letterboxd diary import header, in write order.
var Columns = []string{
	"Title",
	"Year",
	"WatchedDate",
	"Rating",
	"Rewatch",
	"Directors",
	"Studio",
	"Genres",
	"tmdbID",
	"LetterboxdURI",
}

type Row struct {
	Title         string
	Year          string
	WatchedDate   string
	Rating        string
	Rewatch       string
	Directors     string
	Studio        string
	Genres        string
	TMDbID        string
	LetterboxdURI string
}

// Record returns the row's values in Columns order.
func (r Row) Record() []string {
	return []string{
		r.Title,
		r.Year,
		r.WatchedDate,
		r.Rating,
		r.Rewatch,
		r.Directors,
		r.Studio,
		r.Genres,
		r.TMDbID,
		r.LetterboxdURI,
	}
}
