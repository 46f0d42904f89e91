package worklog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a billable party. Entries reference it by ID.
type Client struct {
	ID       int64
	Name     string  `validate:"required,notblank,max=128"`
	Rate     float64 `validate:"gt=0"`
	Currency string  `validate:"required,notblank,max=8"`
}

// Entry is one logged unit of work together with a snapshot of its client.
type Entry struct {
	ID      int64
	Day     time.Time
	Hours   float64
	Project string
	Task    string
	Client  Client
}

// Amount returns hours multiplied by the client's hourly rate.
func (e Entry) Amount() decimal.Decimal {
	return decimal.NewFromFloat(e.Hours).Mul(decimal.NewFromFloat(e.Client.Rate))
}

// NewEntry carries the values needed to log a new entry.
type NewEntry struct {
	ClientName string `validate:"required,notblank"`
	Project    string `validate:"required,notblank"`
	Task       string
	Day        time.Time `validate:"required"`
	Hours      float64   `validate:"gte=0,lte=24"`
}

// ClientPatch lists client fields to change. Nil means "leave untouched".
type ClientPatch struct {
	Rate     *float64 `validate:"omitnil,gt=0"`
	Currency *string  `validate:"omitnil,notblank,max=8"`
}

func (p ClientPatch) IsEmpty() bool {
	return p.Rate == nil && p.Currency == nil
}

// EntryPatch lists entry fields to change. Nil means "leave untouched";
// a supplied zero value (0 hours, empty task) is applied.
type EntryPatch struct {
	Project *string `validate:"omitnil,notblank"`
	Task    *string
	Day     *time.Time
	Hours   *float64 `validate:"omitnil,gte=0,lte=24"`
}

func (p EntryPatch) IsEmpty() bool {
	return p.Project == nil && p.Task == nil && p.Day == nil && p.Hours == nil
}

// Apply returns a copy of entry with the supplied fields replaced.
func (p EntryPatch) Apply(entry Entry) Entry {
	if p.Project != nil {
		entry.Project = *p.Project
	}
	if p.Task != nil {
		entry.Task = *p.Task
	}
	if p.Day != nil {
		entry.Day = *p.Day
	}
	if p.Hours != nil {
		entry.Hours = *p.Hours
	}
	return entry
}

// DuplicateOverrides are applied on top of the most recent entry when it is cloned.
type DuplicateOverrides struct {
	ClientName *string
	EntryPatch
}

// Ptr returns a pointer to value, for building patches.
func Ptr[T any](value T) *T {
	return &value
}
