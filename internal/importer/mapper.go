package importer

import "strings"

// Row is one spreadsheet record keyed by lowercased, trimmed header.
type Row map[string]string

// Accepted header synonyms per canonical lead field, in priority order.
// The first synonym carrying a non-empty value wins; unknown columns are
// ignored.
var fieldSynonyms = map[string][]string{
	"name":     {"name", "fullname", "full name", "lead name"},
	"location": {"location", "address", "city", "region"},
	"phone":    {"phone", "telephone", "phone number", "mobile"},
	"email":    {"email", "email address", "mail"},
	"website":  {"website", "url", "web site", "site"},
	"notes":    {"notes", "note", "comments", "description"},
	"source":   {"source", "origin", "channel"},
}

func (r Row) pick(field string) string {
	for _, key := range fieldSynonyms[field] {
		if value := strings.TrimSpace(r[key]); value != "" {
			return value
		}
	}
	return ""
}

// empty reports whether every cell of the row is blank.
func (r Row) empty() bool {
	for _, value := range r {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
