package importer

import "strings"

// Dialect is the CSV layout of an import file. It is decided once per file
// by DetectDialect and drives reshaping and row parsing.
type Dialect int

const (
	// DialectRegular is the app's own layout: English headers, comma delimited.
	DialectRegular Dialect = iota
	// DialectSpecial is the Portuguese bank export: semicolon delimited,
	// comma-decimal amounts, day-first dates and a footer line.
	DialectSpecial
)

// specialMarker only appears in the header row of the bank export.
const specialMarker = "Débito"

// Profile describes the column layout of a dialect. Column names are the
// lowercased, trimmed header cells.
type Profile struct {
	Name        string
	Delimiter   rune
	AmountCol   string
	CategoryCol string
	DescCol     string
	DateCol     string
}

var profiles = map[Dialect]Profile{
	DialectRegular: {
		Name:        "regular",
		Delimiter:   ',',
		AmountCol:   "amount",
		CategoryCol: "category",
		DescCol:     "description",
		DateCol:     "date",
	},
	DialectSpecial: {
		Name:        "special",
		Delimiter:   ';',
		AmountCol:   "débito",
		CategoryCol: "categoria",
		DescCol:     "descrição",
		DateCol:     "data valor",
	},
}

func (d Dialect) Profile() Profile {
	return profiles[d]
}

func (d Dialect) String() string {
	return profiles[d].Name
}

// DetectDialect classifies decoded file text. A Regular file whose free text
// happens to contain the marker is misclassified as Special.
func DetectDialect(text string) Dialect {
	if strings.Contains(text, specialMarker) {
		return DialectSpecial
	}

	return DialectRegular
}
