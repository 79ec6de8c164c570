package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/primeapparel/backend/internal/domain/shared"
)

// Number prefixes per document type. The house prefix identifies the
// exporter on every issued document.
const (
	housePrefix       = "PAE"
	ciPrefix          = "PAE-CI"
	packingListPrefix = "PAE-PL"
	genericPrefix     = "PAE-DOC"
)

// NumberPrefix returns the numbering prefix for a document type
func NumberPrefix(t Type) string {
	switch t {
	case TypePI:
		return housePrefix
	case TypeCI:
		return ciPrefix
	case TypePackingList:
		return packingListPrefix
	default:
		return genericPrefix
	}
}

// FormatNumber renders a document number as {prefix}-{year}-{seq}, with the
// sequence zero-padded to three digits (wider sequences print unpadded).
func FormatNumber(t Type, year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", NumberPrefix(t), year, seq)
}

// ParseTrailingSequence extracts the numeric sequence from the last
// dash-separated segment of a document number. Numbers without a parseable
// trailing segment fail with ErrInvalidSequence rather than silently
// restarting the sequence.
func ParseTrailingSequence(number string) (int, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, shared.ErrInvalidSequence
	}
	seq, err := strconv.Atoi(number[idx+1:])
	if err != nil {
		return 0, shared.ErrInvalidSequence
	}
	return seq, nil
}
