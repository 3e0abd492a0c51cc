package catalog

import (
	"regexp"
	"strconv"

	"github.com/vishalmisal215/SPAS/internal/models"
)

// UnnumberedOrdinal is returned for names with no parseable number so they
// sort after every numbered practical.
const UnnumberedOrdinal = 9999

var (
	practicalNumberPattern = regexp.MustCompile(`(?i)practical\s*(?:no\.?\s*)?:?\s*(\d+)`)
	leadingNumberPattern   = regexp.MustCompile(`^\s*(\d+)`)
)

// ExtractOrdinal pulls the lab number out of a practical display name, e.g.
// "Practical No: 3", "Practical 3" or "PRACTICAL NO 3". A bare leading number
// is the fallback.
func ExtractOrdinal(name string) int {
	if match := practicalNumberPattern.FindStringSubmatch(name); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil {
			return n
		}
	}

	if match := leadingNumberPattern.FindStringSubmatch(name); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil {
			return n
		}
	}

	return UnnumberedOrdinal
}

// InsertSorted places practical before the first entry whose ordinal is
// strictly greater, so equal ordinals keep their original relative order and
// anything unnumbered lands at the end.
func InsertSorted(practicals []models.Practical, practical models.Practical) []models.Practical {
	ordinal := ExtractOrdinal(practical.Name)
	for i, existing := range practicals {
		if ExtractOrdinal(existing.Name) > ordinal {
			practicals = append(practicals, models.Practical{})
			copy(practicals[i+1:], practicals[i:])
			practicals[i] = practical
			return practicals
		}
	}

	return append(practicals, practical)
}

// InsertIDSorted is InsertSorted for id lists, ordering by the ordinal of the
// display name each id resolves to. Ids with no known name sort as
// unnumbered.
func InsertIDSorted(ids []string, id string, nameByID map[string]string) []string {
	ordinal := ExtractOrdinal(nameByID[id])
	for i, existing := range ids {
		if ExtractOrdinal(nameByID[existing]) > ordinal {
			ids = append(ids, "")
			copy(ids[i+1:], ids[i:])
			ids[i] = id
			return ids
		}
	}

	return append(ids, id)
}
