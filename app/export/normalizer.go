package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/plex-letterboxd/app/history"
	"github.com/lysyi3m/plex-letterboxd/app/plex"
)

const (
	dateLayout    = "2006-01-02"
	listSeparator = ", "
)

type Normalizer struct {
	location *time.Location
}

// NewNormalizer formats watched dates in loc (UTC when nil).
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{location: loc}
}

func (n *Normalizer) WatchedDate(item plex.Item) string {
	if item.LastViewedAt == nil {
		return ""
	}
	return item.LastViewedAt.In(n.location).Format(dateLayout)
}

func (n *Normalizer) Key(item plex.Item) history.Key {
	return history.NewKey(item.Title, n.WatchedDate(item))
}

// Normalize maps a watched item to its CSV row. Callers only pass items with
// a positive view count.
func (n *Normalizer) Normalize(item plex.Item) Row {
	row := Row{
		Title:       item.Title,
		WatchedDate: n.WatchedDate(item),
		Rewatch:     "No",
		Directors:   strings.Join(item.Directors, listSeparator),
		Studio:      item.Studio,
		Genres:      strings.Join(item.Genres, listSeparator),
		TMDbID:      ExtractFromGUIDs(item.GUID, item.ExternalGUIDs),
	}

	if item.Year > 0 {
		row.Year = strconv.Itoa(item.Year)
	}
	if item.ViewCount > 1 {
		row.Rewatch = "Yes"
	}
	if rating := LetterboxdRating(item.UserRating); rating != nil {
		row.Rating = strconv.FormatFloat(*rating, 'f', 1, 64)
	}
	if row.TMDbID != "" {
		row.LetterboxdURI = fmt.Sprintf("https://letterboxd.com/tmdb/%s/", row.TMDbID)
	}

	return row
}
