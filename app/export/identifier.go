package export

import "regexp"

var tmdbPattern = regexp.MustCompile(`(?:tmdb|themoviedb)://(\d+)`)

// ExtractExternalID returns the TMDb id embedded in a Plex GUID such as
// "plex://movie/abc?tmdb://603", or "" when there is none.
func ExtractExternalID(guid string) string {
	if m := tmdbPattern.FindStringSubmatch(guid); len(m) > 1 {
		return m[1]
	}
	return ""
}

// ExtractFromGUIDs checks the primary GUID first, then the item's Guid children.
func ExtractFromGUIDs(primary string, others []string) string {
	if id := ExtractExternalID(primary); id != "" {
		return id
	}
	for _, guid := range others {
		if id := ExtractExternalID(guid); id != "" {
			return id
		}
	}
	return ""
}
