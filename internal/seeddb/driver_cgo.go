//go:build !purego

package seeddb

import (
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

// createDSN builds the go-sqlite3 data source name for location.
func createDSN(location string, disableOptimizations bool) (string, error) {
	qp := url.Values{}
	qp.Add("_foreign_keys", "true")
	qp.Add("_busy_timeout", "5000")

	if !disableOptimizations {
		qp.Add("_journal_mode", "WAL")
		qp.Add("_synchronous", "NORMAL")
	}

	return mergeDSN(location, qp)
}
