package persistence

import "strings"

// orderClause builds a safe ORDER BY clause from caller-supplied sort
// options. The column must appear in the allowed whitelist, otherwise
// the default column is used; the direction is DESC unless the caller
// asked for asc explicitly. Both inputs end up in raw SQL, so nothing
// outside the whitelist ever passes through.
func orderClause(orderBy, orderDir string, allowed map[string]bool, defaultColumn string) string {
	column := strings.TrimSpace(orderBy)
	if column == "" || !allowed[column] {
		column = defaultColumn
	}

	dir := "DESC"
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		dir = "ASC"
	}
	return column + " " + dir
}
