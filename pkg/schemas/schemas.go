// Package schemas holds the request and response shapes of the HTTP API and
// the projections between them and the stored rows.
//
// Required request fields are pointers so that a missing field and a zero
// value can be told apart by the "required" binding rule.
package schemas

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"time"
)

// dateLayouts are tried in order when decoding a Date.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date is a timestamp that also accepts plain calendar dates on input
type Date struct {
	time.Time
}

var dateType = reflect.TypeOf(Date{})

// UnmarshalJSON implements json.Unmarshaler. Failures are reported as
// *json.UnmarshalTypeError so the decoder attaches the JSON field name.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &json.UnmarshalTypeError{Value: "non-string value", Type: dateType}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return &json.UnmarshalTypeError{Value: "string " + strconv.Quote(s), Type: dateType}
}

func (d *Date) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// RootResponse is returned by GET /
type RootResponse struct {
	Message string `json:"message"`
}
