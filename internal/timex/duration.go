// Package timex holds the duration type used by the JSON config file.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrNegativeDuration = errors.New("negative duration")

// Duration reads a config timeout either as a time.ParseDuration string
// ("15s", "1m30s") or as a whole number of seconds. Negative values are
// rejected.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var v time.Duration
	switch value := raw.(type) {
	case float64:
		if value != math.Trunc(value) || value > math.MaxInt64/float64(time.Second) {
			return fmt.Errorf("invalid duration %v: want whole seconds", value)
		}
		v = time.Duration(value) * time.Second
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		v = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}

	if v < 0 {
		return ErrNegativeDuration
	}
	d.Duration = v
	return nil
}

// Apply stores d into dst when d was present in the file.
func (d *Duration) Apply(dst *time.Duration) {
	if d != nil {
		*dst = d.Duration
	}
}
