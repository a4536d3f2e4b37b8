// package schema loads the DDL script that defines the demo database.
//
// A script is a sequence of statements separated by `;`. Statements are
// submitted to the database admin API as a single creation batch, so the
// loader only splits and trims; it never executes anything itself.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed sql/musicdb.sql
var defaultScript string

// Default returns the embedded demo schema script.
func Default() string {
	return defaultScript
}

// Load returns the DDL script at path, or the embedded default when path is empty.
func Load(path string) (string, error) {
	if path == "" {
		return defaultScript, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read schema file: %w", err)
	}

	return string(data), nil
}

// Statements splits a DDL script into individual statements.
//
// Fragments are split on `;`, stripped of comments, and trimmed of
// surrounding whitespace including `\r` and `\n`. Empty fragments are
// discarded, which covers the trailing fragment a terminal separator
// produces.
func Statements(script string) []string {
	var stmts []string

	for _, frag := range strings.Split(script, ";") {
		frag = removeComments(frag)
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		stmts = append(stmts, frag)
	}

	return stmts
}

// removeComments removes SQL comments from a statement.
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	var result []string
	for _, line := range lines {
		// Remove single-line comments
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
