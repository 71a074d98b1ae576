package importer

import "strings"

// Reshape prepares Special dialect text for tabular parsing: blank lines and
// the trailing footer line are dropped and header cells are lowercased and
// trimmed. Regular text is returned unchanged.
func Reshape(text string, d Dialect) string {
	if d != DialectSpecial {
		return text
	}

	var lines []string

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		lines = append(lines, line)
	}

	// The export always ends with a non-data footer.
	if len(lines) > 0 {
		lines = lines[:len(lines)-1]
	}

	if len(lines) == 0 {
		return ""
	}

	delim := string(d.Profile().Delimiter)

	header := strings.Split(lines[0], delim)
	for i, cell := range header {
		header[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	lines[0] = strings.Join(header, delim)

	return strings.Join(lines, "\n")
}
