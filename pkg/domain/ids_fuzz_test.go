//go:build go1.18

package domain

import (
	"encoding/json"
	"testing"
	"unicode/utf8"
)

// FuzzParseProductID checks that parsing never panics and that accepted IDs
// survive a JSON round-trip unchanged.
func FuzzParseProductID(f *testing.F) {
	f.Add("")
	f.Add("42")
	f.Add("P1")
	f.Add("007")
	f.Add("'; DROP TABLE products;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("12\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseProductID(input)
		if err != nil {
			return
		}
		if !utf8.ValidString(string(id)) {
			t.Error("non-UTF8 input was accepted")
		}

		body, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("marshal accepted ID: %v", err)
		}
		var back ProductID
		if err := json.Unmarshal(body, &back); err != nil {
			t.Fatalf("unmarshal accepted ID: %v", err)
		}
		if back != id {
			t.Errorf("round-trip changed %q to %q", id, back)
		}
	})
}
