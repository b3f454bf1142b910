package history

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const keySeparator = "_"

// Key identifies one export event: a title watched on a given date.
// WatchedDate is "YYYY-MM-DD" or empty when the item has no view timestamp.
type Key struct {
	Title       string
	WatchedDate string
}

// NewKey builds a key with the title in Unicode NFC form so that composed
// and decomposed spellings of the same title compare equal.
func NewKey(title, watchedDate string) Key {
	return Key{
		Title:       norm.NFC.String(title),
		WatchedDate: watchedDate,
	}
}

// String returns the persisted form "title_watchedDate".
func (k Key) String() string {
	return k.Title + keySeparator + k.WatchedDate
}

// ParseKey reverses String. The date never contains the separator, so the
// split happens at the last one and titles may contain underscores.
func ParseKey(value string) (Key, bool) {
	idx := strings.LastIndex(value, keySeparator)
	if idx < 0 {
		return Key{}, false
	}
	return NewKey(value[:idx], value[idx+len(keySeparator):]), true
}
