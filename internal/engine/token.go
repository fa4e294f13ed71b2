package engine

import "fmt"

// The 4-character coordinate token ("e2e4") is the only move format spoken
// over the wire to language models. Decoding is total: bad input yields a
// *MalformedTokenError, never a panic. Whether the move itself is legal is
// the engine's call, not the codec's.

// MalformedTokenError reports input that is not a syntactically valid
// coordinate token.
type MalformedTokenError struct {
	Token string
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed move token %q", e.Token)
}

// EncodeToken joins two squares into a coordinate token.
func EncodeToken(from, to string) string {
	return from + to
}

// DecodeToken splits a coordinate token into from/to squares. The token must
// be exactly 4 characters: file a-h, rank 1-8, twice.
func DecodeToken(token string) (from, to string, err error) {
	if len(token) != 4 {
		return "", "", &MalformedTokenError{Token: token}
	}
	for i := 0; i < 4; i += 2 {
		if token[i] < 'a' || token[i] > 'h' {
			return "", "", &MalformedTokenError{Token: token}
		}
		if token[i+1] < '1' || token[i+1] > '8' {
			return "", "", &MalformedTokenError{Token: token}
		}
	}
	return token[:2], token[2:], nil
}
