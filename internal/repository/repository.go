package repository

import "strings"

// inClause builds a "?, ?, ?" placeholder list for n values. The dialect
// layer rewrites placeholders for databases that need numbering.
func inClause(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// int64Args converts an id slice into query arguments.
func int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
