package jwt

import "crypto"

// Segments holds the three encoded parts of a compact token.
type Segments struct {
	Header    string
	Payload   string
	Signature string
}

// SigningInput returns the exact string covered by the signature.
func (s Segments) SigningInput() string {
	return s.Header + Separator + s.Payload
}

// String renders the compact token.
func (s Segments) String() string {
	return s.SigningInput() + Separator + s.Signature
}

// Assemble signs header "." payload with key and returns the completed segments.
// On error the zero Segments is returned; no partial token escapes.
func Assemble(header, payload string, key crypto.PrivateKey) (Segments, error) {
	seg := Segments{Header: header, Payload: payload}
	sig, err := Sign(key, seg.SigningInput())
	if err != nil {
		return Segments{}, err
	}
	seg.Signature = encodeSegment(sig)
	return seg, nil
}

// Build encodes claims under the fixed header and signs the result.
func Build(claims Claims, key crypto.PrivateKey) (Segments, error) {
	payload, err := EncodePayload(claims)
	if err != nil {
		return Segments{}, err
	}
	return Assemble(EncodeHeader(), payload, key)
}
