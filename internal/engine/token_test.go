package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestDecodeTokenRoundTrip(t *testing.T) {
	// decode(encode(from,to)) must reproduce every valid square pair.
	for ff := 'a'; ff <= 'h'; ff++ {
		for fr := '1'; fr <= '8'; fr++ {
			for tf := 'a'; tf <= 'h'; tf++ {
				for tr := '1'; tr <= '8'; tr++ {
					from := fmt.Sprintf("%c%c", ff, fr)
					to := fmt.Sprintf("%c%c", tf, tr)
					gotFrom, gotTo, err := DecodeToken(EncodeToken(from, to))
					if err != nil {
						t.Fatalf("DecodeToken(%s%s) error: %v", from, to, err)
					}
					if gotFrom != from || gotTo != to {
						t.Fatalf("round trip %s%s = %s,%s", from, to, gotFrom, gotTo)
					}
				}
			}
		}
	}
}

func TestDecodeTokenMalformed(t *testing.T) {
	cases := []string{
		"",
		"e2",
		"e2e",
		"e2e44",
		"e9e4",
		"i2e4",
		"e2i4",
		"e0e4",
		"22e4",
		"abcd",
		"E2E4",
		"e2 4",
		"resign",
	}
	for _, token := range cases {
		_, _, err := DecodeToken(token)
		if err == nil {
			t.Errorf("DecodeToken(%q) = nil error, want malformed", token)
			continue
		}
		var malformed *MalformedTokenError
		if !errors.As(err, &malformed) {
			t.Errorf("DecodeToken(%q) error type %T, want *MalformedTokenError", token, err)
		}
	}
}
