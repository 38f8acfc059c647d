package models

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
)

// Percentage is a completion ratio in hundredths of a percent, so 33.33% is
// stored as 3333. It maps to NUMERIC(5,2) columns.
type Percentage int64

const (
	PercentageZero Percentage = 0
	PercentageFull Percentage = 10000
)

// NewPercentage returns completed/total*100 rounded half-up to two decimals.
// A zero total yields zero.
func NewPercentage(completed, total int) Percentage {
	if total <= 0 || completed <= 0 {
		return PercentageZero
	}
	if completed >= total {
		return PercentageFull
	}
	num := int64(completed) * 10000
	den := int64(total)
	return Percentage((2*num + den) / (2 * den))
}

func ParsePercentage(s string) (Percentage, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	if f < 0 || f > 100 {
		return 0, fmt.Errorf("percentage %q out of range", s)
	}
	return Percentage(math.Round(f * 100)), nil
}

func (p Percentage) Float64() float64 {
	return float64(p) / 100
}

func (p Percentage) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

func (p Percentage) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Percentage) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePercentage(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value реализует driver.Valuer.
func (p Percentage) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan реализует sql.Scanner; lib/pq отдаёт NUMERIC как []byte.
func (p *Percentage) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = PercentageZero
		return nil
	case []byte:
		parsed, err := ParsePercentage(string(v))
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	case string:
		parsed, err := ParsePercentage(v)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	case float64:
		*p = Percentage(math.Round(v * 100))
		return nil
	case int64:
		*p = Percentage(v * 100)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Percentage", src)
	}
}
