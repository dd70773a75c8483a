package config

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Interval is a backup interval that unmarshals from either a duration
// string ("90s", "5m") or a bare number of minutes (5, 0.5).
type Interval time.Duration

// Duration returns the interval as a time.Duration.
func (i Interval) Duration() time.Duration {
	return time.Duration(i)
}

func (i *Interval) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return i.from(raw)
}

func (i *Interval) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return i.from(raw)
}

func (i *Interval) from(raw any) error {
	switch v := raw.(type) {
	case string:
		d, err := parseInterval(v)
		if err != nil {
			return err
		}
		*i = Interval(d)
	case float64:
		*i = Interval(time.Duration(v * float64(time.Minute)))
	case int:
		*i = Interval(time.Duration(v) * time.Minute)
	default:
		return fmt.Errorf("invalid interval value %v", raw)
	}
	return nil
}
