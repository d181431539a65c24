package feedservice

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"photogallery/internal/photoapi"
)

// Sort selects the ordering of a photo view.
type Sort string

const (
	// SortNewest orders by descending id. The source carries no timestamps,
	// so raw id order stands in for recency.
	SortNewest Sort = "idDesc"
	// SortOldest orders by ascending id.
	SortOldest Sort = "idAsc"
	// SortTitle orders by title, locale-aware ascending.
	SortTitle Sort = "title"
)

// ParseSort maps a query-string value onto a sort key, defaulting to newest
// first.
func ParseSort(value string) Sort {
	switch Sort(value) {
	case SortOldest:
		return SortOldest
	case SortTitle:
		return SortTitle
	default:
		return SortNewest
	}
}

// titleCollator compares titles the way a locale-aware UI would, ignoring
// case and diacritics.
var titleCollator = collate.New(language.Und, collate.Loose)

// FilterByTitle returns the photos whose title contains the query,
// case-insensitively. The input slice is never modified.
func FilterByTitle(photos []photoapi.Photo, query string) []photoapi.Photo {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]photoapi.Photo, len(photos))
		copy(out, photos)
		return out
	}

	out := make([]photoapi.Photo, 0, len(photos))
	for _, photo := range photos {
		if strings.Contains(strings.ToLower(photo.Title), query) {
			out = append(out, photo)
		}
	}
	return out
}

// SortPhotos returns a new slice ordered by the given key. The input slice
// is never modified.
func SortPhotos(photos []photoapi.Photo, key Sort) []photoapi.Photo {
	out := make([]photoapi.Photo, len(photos))
	copy(out, photos)

	switch key {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return titleCollator.CompareString(out[i].Title, out[j].Title) < 0
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	}
	return out
}
