// Package cose decodes wallet-produced COSE_Sign1 envelopes and rebuilds
// the canonical Sig_structure bytes that the wallet originally signed.
//
// All encoding goes through a single deterministic (RFC 8949 core
// deterministic) CBOR mode so that re-encoding a canonically encoded item
// reproduces it byte for byte. Byte-identity of the Sig_structure is the
// correctness-critical invariant: any deviation invalidates downstream
// signature verification on chain.
package cose

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Encode marshals v using the deterministic encoding mode.
func Encode(v interface{}) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode CBOR item")
	}
	return data, nil
}

// Decode unmarshals a single CBOR item into v. Trailing bytes, truncated
// buffers and indefinite-length items fail with ErrMalformedEnvelope.
func Decode(data []byte, v interface{}) error {
	if err := decMode.Unmarshal(data, v); err != nil {
		return errors.Wrapf(ErrMalformedEnvelope, "%v", err)
	}
	return nil
}
