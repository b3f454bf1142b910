// Package export turns watched Plex items into Letterboxd diary rows and
// appends the ones not exported before to a CSV file.
//
// A run loads the export history, walks the configured libraries in order,
// normalizes every watched item whose key is new, persists the grown history
// once and finally appends the buffered rows. History is written before the
// CSV so a crash in between loses rows rather than duplicating them.
package export
