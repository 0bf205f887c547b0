package runtime

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/marshallshelly/pebble-records/pkg/batch"
	"github.com/marshallshelly/pebble-records/pkg/builder"
	"github.com/marshallshelly/pebble-records/pkg/record"
)

// DB wraps a record store. It checks response envelopes, routes every write
// through the batch interpreter and logs each call.
type DB struct {
	store record.Store
	log   logrus.FieldLogger
}

// NewDB creates a new DB over a record store.
func NewDB(store record.Store, log logrus.FieldLogger) *DB {
	if log == nil {
		log = DiscardLogger()
	}
	return &DB{store: store, log: log}
}

// Store returns the underlying record store.
func (db *DB) Store() record.Store {
	return db.store
}

// Logger returns the logger calls are reported to.
func (db *DB) Logger() logrus.FieldLogger {
	return db.log
}

// Fetch runs a query and returns the matching records.
func (db *DB) Fetch(ctx context.Context, table string, q builder.Query) ([]record.Record, error) {
	const op = "fetch"
	resp, err := db.store.FetchRecords(ctx, table, q)
	if err != nil {
		return nil, db.fail(op, table, &TransportError{Op: op, Table: table, Err: err})
	}
	if resp == nil {
		return nil, db.fail(op, table, &TransportError{Op: op, Table: table, Message: batch.MsgTransportFailed})
	}
	if !resp.Success {
		return nil, db.fail(op, table, &TransportError{Op: op, Table: table, Message: orFallback(resp.Message)})
	}

	db.log.WithFields(logrus.Fields{"table": table, "op": op, "count": len(resp.Data)}).Debug("store call")
	return resp.Data, nil
}

// Get loads a single record by identity.
func (db *DB) Get(ctx context.Context, table string, id int64, fields []string) (record.Record, error) {
	const op = "get"
	resp, err := db.store.GetRecordByID(ctx, table, id, fields)
	if err != nil {
		return nil, db.fail(op, table, &TransportError{Op: op, Table: table, Err: err})
	}
	if resp == nil {
		return nil, db.fail(op, table, &TransportError{Op: op, Table: table, Message: batch.MsgTransportFailed})
	}
	if !resp.Success {
		return nil, db.fail(op, table, &TransportError{Op: op, Table: table, Message: orFallback(resp.Message)})
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}

	db.log.WithFields(logrus.Fields{"table": table, "op": op, "id": id}).Debug("store call")
	return resp.Data, nil
}

// Create submits one record and returns the store's copy of it.
func (db *DB) Create(ctx context.Context, table string, rec record.Record) (record.Record, error) {
	const op = "create"
	resp, err := db.store.CreateRecords(ctx, table, []record.Record{rec})
	if err != nil {
		return nil, db.fail(op, table, &TransportError{Op: op, Table: table, Err: err})
	}
	return db.settle(op, table, batch.Interpret(resp))
}

// Update overwrites one record and returns the store's copy of it.
func (db *DB) Update(ctx context.Context, table string, rec record.Record) (record.Record, error) {
	const op = "update"
	resp, err := db.store.UpdateRecords(ctx, table, []record.Record{rec})
	if err != nil {
		return nil, db.fail(op, table, &TransportError{Op: op, Table: table, Err: err})
	}
	return db.settle(op, table, batch.Interpret(resp))
}

// settle maps an interpreted batch outcome onto the error taxonomy.
func (db *DB) settle(op, table string, out batch.Outcome) (record.Record, error) {
	switch out.Kind {
	case batch.OutcomeSucceeded:
		db.log.WithFields(logrus.Fields{"table": table, "op": op}).Debug("store call")
		return out.Record, nil
	case batch.OutcomeRecordFailed:
		if len(out.Succeeded) > 0 {
			db.log.WithFields(logrus.Fields{"table": table, "op": op, "succeeded": len(out.Succeeded)}).
				Warn("batch partially applied")
		}
		return nil, db.fail(op, table, &ValidationError{Message: out.Message})
	case batch.OutcomeEmpty:
		return nil, db.fail(op, table, fmt.Errorf("%s %s: %w", op, table, ErrNoResult))
	default:
		return nil, db.fail(op, table, &TransportError{Op: op, Table: table, Message: out.Message})
	}
}

func (db *DB) fail(op, table string, err error) error {
	db.log.WithFields(logrus.Fields{"table": table, "op": op}).WithError(err).Error("store call failed")
	return err
}

func orFallback(msg string) string {
	if msg == "" {
		return batch.MsgTransportFailed
	}
	return msg
}
