// Package energy holds the meter reading model shared by the backend and the
// terminal client.
package energy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jask/energylog/internal/widget"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid energy reading")

// Kind identifies the meter a reading was taken from.
type Kind int

const (
	ElectricityVT Kind = iota + 1
	ElectricityNT
	Gas
	Water
)

var kindInfo = map[Kind]struct{ label, unit string }{
	ElectricityVT: {"Electricity VT", "kWh"},
	ElectricityNT: {"Electricity NT", "kWh"},
	Gas:           {"Gas", "m3"},
	Water:         {"Water", "m3"},
}

// Kinds lists every known kind in display order.
func Kinds() []Kind {
	return []Kind{ElectricityVT, ElectricityNT, Gas, Water}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindInfo[k]
	return ok
}

// Label returns the human name, or "Kind N" for unknown kinds.
func (k Kind) Label() string {
	if info, ok := kindInfo[k]; ok {
		return info.label
	}
	return fmt.Sprintf("Kind %d", int(k))
}

// Unit returns the measurement unit, or "" for unknown kinds.
func (k Kind) Unit() string { return kindInfo[k].unit }

func (k Kind) String() string { return k.Label() }

// ParseKind accepts the numeric form or a label (case-insensitive).
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if k := Kind(n); k.Valid() {
			return k, nil
		}
		return 0, fmt.Errorf("%w: unknown kind %d", ErrInvalid, n)
	}
	for _, k := range Kinds() {
		if strings.EqualFold(k.Label(), s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalid, s)
}

// KindInfo describes a kind on the wire.
type KindInfo struct {
	Kind  Kind   `json:"Kind"`
	Label string `json:"Label"`
	Unit  string `json:"Unit"`
}

// KindInfos lists the built-in kinds.
func KindInfos() []KindInfo {
	out := make([]KindInfo, 0, len(kindInfo))
	for _, k := range Kinds() {
		out = append(out, KindInfo{Kind: k, Label: k.Label(), Unit: k.Unit()})
	}
	return out
}

// OptionsFor builds selector options from kind descriptions.
func OptionsFor(kinds []KindInfo) []widget.Option {
	out := make([]widget.Option, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, widget.Option{Value: strconv.Itoa(int(k.Kind)), Label: k.Label})
	}
	return out
}

// KindOptions builds selector options for every kind: the value is the kind
// number, the label its name.
func KindOptions() []widget.Option {
	return OptionsFor(KindInfos())
}

// Energy is one meter reading. Created is unix seconds. The JSON field names
// are part of the HTTP contract.
type Energy struct {
	ID      string  `json:"ID"`
	Kind    Kind    `json:"Kind"`
	Amount  float64 `json:"Amount"`
	Info    string  `json:"Info"`
	Created int64   `json:"Created"`
}

// CreatedAt returns Created as a time in loc.
func (e Energy) CreatedAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(e.Created, 0).In(loc)
}

// Validate checks the fields the backend relies on.
func (e Energy) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalid, int(e.Kind))
	}
	if e.Amount < 0 {
		return fmt.Errorf("%w: negative amount %v", ErrInvalid, e.Amount)
	}
	if e.Created <= 0 {
		return fmt.Errorf("%w: missing created time", ErrInvalid)
	}
	return nil
}

// JoinDateAndClock combines a "YYYY-MM-DD" date with the time of day of clock,
// interpreted in loc, into unix seconds.
func JoinDateAndClock(date string, clock time.Time, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(time.DateOnly, date, loc)
	if err != nil {
		return 0, fmt.Errorf("%w: date %q: %v", ErrInvalid, date, err)
	}
	clock = clock.In(loc)
	t := time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
	return t.Unix(), nil
}

// FormatAmount renders an amount with precision fraction digits.
func FormatAmount(amount float64, precision int) string {
	return strconv.FormatFloat(amount, 'f', max(precision, 0), 64)
}

// ParseAmount reads the number editor's canonical form.
func ParseAmount(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: missing amount", ErrInvalid)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q: %v", ErrInvalid, s, err)
	}
	return v, nil
}
