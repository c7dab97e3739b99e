package postgres

import (
	"database/sql"
	"strings"
)

func isNotFound(err error) bool {
	return err == sql.ErrNoRows
}

// pgbouncer in transaction pooling mode can drop the unnamed prepared
// statement between prepare and execute, or bind against a stale one.
// Both cases surface as protocol errors on an otherwise valid query and
// are safe to retry once on a fresh statement.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "parameters")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "(26000)") ||
		strings.Contains(msg, "unnamed prepared statement does not exist")
}

func isRetryableStmtError(err error) bool {
	return isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err)
}
