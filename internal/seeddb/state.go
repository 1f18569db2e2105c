package seeddb

import "github.com/orsinium-labs/enum"

// state is the lifecycle state of a Database handle.
type state enum.Member[string]

var (
	stateOpen   = state{Value: "open"}
	stateClosed = state{Value: "closed"}
)
