package plex

import "time"

// Section is a Plex library section.
type Section struct {
	Key   string
	Title string
	Type  string
}

// Item is a catalog entry as reported by a section listing.
type Item struct {
	RatingKey     string
	Title         string
	Year          int
	ViewCount     int
	LastViewedAt  *time.Time
	UserRating    *float64 // 0..10
	GUID          string
	ExternalGUIDs []string // e.g. "tmdb://603", "imdb://tt0133093"
	Genres        []string
	Studio        string
	Directors     []string
}

// Watched reports whether the item has been played at least once.
func (i Item) Watched() bool {
	return i.ViewCount > 0
}

type mediaContainer struct {
	Directories []xmlMetadata `xml:"Directory"`
	Videos      []xmlMetadata `xml:"Video"`
}

type xmlTag struct {
	Tag string `xml:"tag,attr"`
}

type xmlGUID struct {
	ID string `xml:"id,attr"`
}

type xmlMetadata struct {
	Key          string    `xml:"key,attr"`
	RatingKey    string    `xml:"ratingKey,attr"`
	Type         string    `xml:"type,attr"`
	Title        string    `xml:"title,attr"`
	Year         int       `xml:"year,attr"`
	ViewCount    int       `xml:"viewCount,attr"`
	LastViewedAt int64     `xml:"lastViewedAt,attr"`
	UserRating   string    `xml:"userRating,attr"`
	GUID         string    `xml:"guid,attr"`
	Studio       string    `xml:"studio,attr"`
	Genres       []xmlTag  `xml:"Genre"`
	Directors    []xmlTag  `xml:"Director"`
	GUIDs        []xmlGUID `xml:"Guid"`
}
