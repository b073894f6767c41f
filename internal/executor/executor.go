// Package executor implements the pull-based query-execution iterators:
// base table scan, filter, projection, nested-loop join, and sort. Every
// operator follows the same small contract, grounded on the method shape
// of original_source/execution/executor_sort.cpp and
// executor_join_nestedloop.cpp (Init/Next/IsEnd/GetOutSchema), composed
// by direct call with owning pointers the way novasql composes storage
// components.
package executor

import "github.com/tuannm99/pagedb/internal/record"

// Executor is the pull interface every operator implements. Init primes
// state and must be called before Next or GetRecord. Next advances to
// the following output record; callers check IsEnd before trusting the
// result of GetRecord. A single query runs on one goroutine and operators
// are not safe for concurrent use.
type Executor interface {
	Init() error
	Next() error
	IsEnd() bool
	GetRecord() record.Record
	GetOutSchema() record.Schema
}
