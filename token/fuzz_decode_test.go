package token

import "testing"

// FuzzDecodePayload asserts the fail-closed contract: arbitrary input must
// either decode cleanly or return ErrMalformed, and an undecodable token is
// always expired. No input may panic.
func FuzzDecodePayload(f *testing.F) {
	f.Add("")
	f.Add("a.b.c")
	f.Add("eyJhbGciOiJIUzI1NiJ9.eyJleHAiOjB9.sig")
	f.Add("....")
	f.Add("\x00\xff.\x00.\x00")

	f.Fuzz(func(t *testing.T, input string) {
		payload, err := DecodePayload(input)
		if err != nil {
			if payload != nil {
				t.Fatal("decode returned both payload and error")
			}
			if !IsExpired(input) {
				t.Fatal("undecodable token reported as live")
			}
			return
		}
		if payload == nil {
			t.Fatal("decode returned neither payload nor error")
		}
	})
}
