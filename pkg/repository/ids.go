package repository

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marshallshelly/pebble-records/pkg/models"
)

// Clock returns the current time.
type Clock func() time.Time

// OrderNumbers issues human-facing order numbers.
type OrderNumbers interface {
	Next() string
}

// AddressIDs issues Ids for addresses embedded in a profile.
type AddressIDs interface {
	Next(existing []models.Address) int64
}

// TimestampOrderNumbers formats "VO" plus the last 8 digits of the Unix millisecond clock.
// Two orders placed in the same millisecond share a number.
type TimestampOrderNumbers struct {
	Now Clock
}

// Next implements OrderNumbers.
func (g TimestampOrderNumbers) Next() string {
	ms := strconv.FormatInt(now(g.Now).UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "VO" + ms
}

// UUIDOrderNumbers formats "VO-" plus a random UUID.
type UUIDOrderNumbers struct{}

// Next implements OrderNumbers.
func (UUIDOrderNumbers) Next() string {
	return "VO-" + strings.ToUpper(uuid.NewString())
}

// TimestampAddressIDs uses the Unix millisecond clock, bumped past any Id already in the list.
type TimestampAddressIDs struct {
	Now Clock
}

// Next implements AddressIDs.
func (g TimestampAddressIDs) Next(existing []models.Address) int64 {
	id := now(g.Now).UnixMilli()
	for _, a := range existing {
		if a.ID >= id {
			id = a.ID + 1
		}
	}
	return id
}

// TimestampLayout is the fixed-width UTC layout of createdAt values, so they sort as text.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

func timestamp(c Clock) string {
	return now(c).UTC().Format(TimestampLayout)
}

func now(c Clock) time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
