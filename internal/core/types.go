package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date layout used on the wire and in filenames.
const DateLayout = "2006-01-02"

// Date is a calendar date in YYYY-MM-DD form. The zero value means unset.
// Dates in this layout compare lexicographically in chronological order.
type Date string

// ParseDate validates s as a calendar date. An empty string yields an unset Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", WrapError(ErrInvalidDate, err)
	}
	return Date(s), nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == ""
}

func (d Date) String() string {
	return string(d)
}

// Before reports whether d sorts before other.
func (d Date) Before(other Date) bool {
	return d < other
}

// After reports whether d sorts after other.
func (d Date) After(other Date) bool {
	return d > other
}

// Long renders the date as "September 8, 2014", falling back to the raw value.
func (d Date) Long() string {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return string(d)
	}
	return t.Format("January 2, 2006")
}

// Bounds of the window the signals API serves.
const (
	MinStartDate Date = "2014-09-08"
	MaxEndDate   Date = "2025-02-18"
)

// DateBound is the inclusive window a DateRange must fall in.
type DateBound struct {
	MinStart Date
	MaxEnd   Date
}

// DefaultBounds returns the fixed query window.
func DefaultBounds() DateBound {
	return DateBound{MinStart: MinStartDate, MaxEnd: MaxEndDate}
}

// DateRange is a user-selected (start, end) pair.
type DateRange struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

// Filename returns the workbook filename for this range.
func (r DateRange) Filename() string {
	return fmt.Sprintf("forex-signals-%s-%s.xlsx", r.Start, r.End)
}

// Trend values reported by the signals API.
const (
	TrendBearish = "BEARISH"
	TrendBullish = "BULLISH"
)

// SignalRecord is one row returned by the signals API. Every field except
// Date may be absent, in which case the pointer is nil.
type SignalRecord struct {
	Date       string   `json:"Date"`
	Trend      *string  `json:"Trend,omitempty"`
	SignalTime *string  `json:"SignalTime,omitempty"`
	EntryPrice *float64 `json:"EntryPrice,omitempty"`
	StopPrice  *float64 `json:"StopPrice,omitempty"`
	LimitPrice *float64 `json:"LimitPrice,omitempty"`
	Lots       *float64 `json:"Lots,omitempty"`
	Pips       *float64 `json:"Pips,omitempty"`
	PipCost    *float64 `json:"PipCost,omitempty"`
}

// QueryResult holds records in the order the API returned them.
type QueryResult []SignalRecord

// Column describes a documented SignalRecord field.
type Column struct {
	Field  string
	Header string
}

// Columns lists the SignalRecord fields in display and export order.
var Columns = []Column{
	{Field: "Date", Header: "Date"},
	{Field: "Trend", Header: "Trend"},
	{Field: "SignalTime", Header: "Signal Time"},
	{Field: "EntryPrice", Header: "Entry Price"},
	{Field: "StopPrice", Header: "Stop Price"},
	{Field: "LimitPrice", Header: "Limit Price"},
	{Field: "Lots", Header: "Lots"},
	{Field: "Pips", Header: "Pips"},
	{Field: "PipCost", Header: "Pip Cost"},
}

// Placeholder is rendered for absent values.
const Placeholder = "-"

// IsBearish reports whether the record carries a BEARISH trend.
func (s SignalRecord) IsBearish() bool {
	return s.Trend != nil && *s.Trend == TrendBearish
}

// Value returns the raw value of field: a string, a float64, or nil when absent.
func (s SignalRecord) Value(field string) any {
	switch field {
	case "Date":
		return s.Date
	case "Trend":
		return derefString(s.Trend)
	case "SignalTime":
		return derefString(s.SignalTime)
	case "EntryPrice":
		return derefFloat(s.EntryPrice)
	case "StopPrice":
		return derefFloat(s.StopPrice)
	case "LimitPrice":
		return derefFloat(s.LimitPrice)
	case "Lots":
		return derefFloat(s.Lots)
	case "Pips":
		return derefFloat(s.Pips)
	case "PipCost":
		return derefFloat(s.PipCost)
	}
	return nil
}

// Display renders field for a results table. Prices use five decimals,
// quantities two, pip cost is shown in dollars and the signal time as HH:MM.
func (s SignalRecord) Display(field string) string {
	switch field {
	case "Date":
		if s.Date == "" {
			return Placeholder
		}
		return s.Date
	case "Trend":
		if s.Trend == nil || *s.Trend == "" {
			return Placeholder
		}
		return *s.Trend
	case "SignalTime":
		return formatClock(s.SignalTime)
	case "EntryPrice", "StopPrice", "LimitPrice":
		return formatFloat(s.Value(field), 5, "")
	case "Lots", "Pips":
		return formatFloat(s.Value(field), 2, "")
	case "PipCost":
		return formatFloat(s.Value(field), 2, "$")
	}
	return Placeholder
}

var signalTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func formatClock(v *string) string {
	if v == nil || *v == "" {
		return Placeholder
	}
	for _, layout := range signalTimeLayouts {
		if t, err := time.Parse(layout, *v); err == nil {
			return t.Format("15:04")
		}
	}
	return *v
}

func formatFloat(v any, decimals int, prefix string) string {
	f, ok := v.(float64)
	if !ok {
		return Placeholder
	}
	return fmt.Sprintf("%s%.*f", prefix, decimals, f)
}

func derefString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
