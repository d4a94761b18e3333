// Package display renders command results for humans or machines.
package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/teranos/rangelink/errors"
)

// MarshalJSON pretty-prints v with two-space indentation
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// WriteJSON writes v to w as indented JSON followed by a newline
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
