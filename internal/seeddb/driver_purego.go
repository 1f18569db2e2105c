//go:build purego

package seeddb

import (
	"net/url"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// createDSN builds the modernc.org/sqlite data source name for location.
func createDSN(location string, disableOptimizations bool) (string, error) {
	qp := url.Values{}
	qp.Add("_pragma", "foreign_keys(1)")
	qp.Add("_pragma", "busy_timeout(5000)")

	if !disableOptimizations {
		qp.Add("_pragma", "journal_mode(WAL)")
		qp.Add("_pragma", "synchronous(NORMAL)")
	}

	return mergeDSN(location, qp)
}
