// Package plex reads library sections and their items from a Plex Media
// Server over its XML HTTP API. Only the read-only calls the exporter needs
// are implemented: server identity, section lookup and section listings.
package plex
