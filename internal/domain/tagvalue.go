package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TagValue holds a repeatable tag field. It starts as a single scalar and is
// promoted to an ordered list when a second value is added.
type TagValue struct {
	values []string
	list   bool
}

// Scalar returns a TagValue holding a single bare value.
func Scalar(s string) TagValue {
	return TagValue{values: []string{s}}
}

// List returns a TagValue already promoted to a list.
func List(values ...string) TagValue {
	return TagValue{values: append([]string(nil), values...), list: true}
}

// Add appends a value, promoting the field to a list on the second occurrence.
func (v *TagValue) Add(s string) {
	if len(v.values) > 0 {
		v.list = true
	}
	v.values = append(v.values, s)
}

func (v TagValue) IsZero() bool {
	return len(v.values) == 0
}

func (v TagValue) IsList() bool {
	return v.list
}

// Values returns a copy of the stored values in encounter order.
func (v TagValue) Values() []string {
	return append([]string(nil), v.values...)
}

// String returns the scalar value, or the list values joined by ", ".
func (v TagValue) String() string {
	return strings.Join(v.values, ", ")
}

func (v TagValue) MarshalJSON() ([]byte, error) {
	if !v.list {
		if len(v.values) == 0 {
			return []byte(`""`), nil
		}
		return json.Marshal(v.values[0])
	}
	return json.Marshal(v.values)
}

func (v *TagValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Scalar(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tag value must be a string or a list of strings: %w", err)
	}
	*v = TagValue{values: list, list: true}
	return nil
}
