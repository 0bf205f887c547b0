// Package batch interprets record store batch write responses.
package batch

import (
	"fmt"

	"github.com/marshallshelly/pebble-records/pkg/record"
)

// OutcomeKind tags the result of interpreting a batch response.
type OutcomeKind int

const (
	// OutcomeSucceeded means no record failed and at least one succeeded.
	OutcomeSucceeded OutcomeKind = iota
	// OutcomeTransportFailed means the envelope itself reported failure.
	OutcomeTransportFailed
	// OutcomeRecordFailed means at least one submitted record was rejected.
	OutcomeRecordFailed
	// OutcomeEmpty means the store reported neither successes nor failures.
	OutcomeEmpty
)

// Fallback messages used when the store gives no detail.
const (
	MsgTransportFailed = "record store request failed"
	MsgRecordFailed    = "record was rejected by the store"
	MsgEmpty           = "operation produced no result"
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeTransportFailed:
		return "transport failed"
	case OutcomeRecordFailed:
		return "record failed"
	case OutcomeEmpty:
		return "empty"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the interpreted batch response.
type Outcome struct {
	Kind OutcomeKind

	// Record is the first succeeded record's data. Set only for OutcomeSucceeded.
	Record record.Record

	// Message is the most specific failure detail. Empty for OutcomeSucceeded.
	Message string

	// Succeeded holds every succeeded result, including on OutcomeRecordFailed.
	Succeeded []record.Result

	// Failed holds every failed result.
	Failed []record.Result
}

// OK reports whether the outcome carries a record.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSucceeded
}

// Err returns nil for OutcomeSucceeded and an *Error otherwise.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	return &Error{Kind: o.Kind, Message: o.Message}
}

// Error is a failed batch outcome.
type Error struct {
	Kind    OutcomeKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Interpret applies the batch policy to a response:
//
//  1. an unsuccessful envelope fails with its message, results are ignored
//  2. results are split into succeeded and failed
//  3. any failure fails the whole batch with the first failure's detail
//  4. otherwise the first succeeded record is the result
//  5. no results at all is an empty outcome
func Interpret(resp *record.BatchResponse) Outcome {
	if resp == nil {
		return Outcome{Kind: OutcomeTransportFailed, Message: MsgTransportFailed}
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = MsgTransportFailed
		}
		return Outcome{Kind: OutcomeTransportFailed, Message: msg}
	}

	var out Outcome
	for _, r := range resp.Results {
		if r.Success {
			out.Succeeded = append(out.Succeeded, r)
		} else {
			out.Failed = append(out.Failed, r)
		}
	}

	switch {
	case len(out.Failed) > 0:
		out.Kind = OutcomeRecordFailed
		out.Message = failureDetail(out.Failed[0])
	case len(out.Succeeded) > 0:
		out.Kind = OutcomeSucceeded
		out.Record = out.Succeeded[0].Data
	default:
		out.Kind = OutcomeEmpty
		out.Message = MsgEmpty
	}

	return out
}

// failureDetail prefers the first per-record error, then the record message.
func failureDetail(r record.Result) string {
	for _, e := range r.Errors {
		if e != "" {
			return e
		}
	}
	if r.Message != "" {
		return r.Message
	}
	return MsgRecordFailed
}
