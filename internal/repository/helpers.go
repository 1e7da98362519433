package repository

import "strings"

// placeholders builds a comma-separated list of n ? placeholders for IN
// clauses; dialect rewriting numbers them later when needed
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// int64Args converts an id slice to the []interface{} shape database/sql wants
func int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
