package bmsad_test

import (
	"bytes"
	"testing"

	"github.com/mercurytools/actordef/bmsad"
)

// FuzzParse asserts the decoder never panics on arbitrary bytes, and that
// anything it accepts re-encodes to the identical input and decodes again.
func FuzzParse(f *testing.F) {
	f.Add(minimalActorDefBytes())
	f.Add([]byte("MSAD"))
	f.Add([]byte{})
	f.Add([]byte{0x4D, 0x53, 0x41, 0x44, 0x0F, 0x00, 0x00, 0x02, 0x00})

	snap := testSnapshot(f)

	f.Fuzz(func(t *testing.T, data []byte) {
		res, err := bmsad.Parse(data, snap)
		if err != nil {
			return
		}
		out, err := res.Encode(snap)
		if err != nil {
			t.Fatalf("accepted input failed to encode: %v", err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("re-encode differs from accepted input")
		}
		if _, err := bmsad.Parse(out, snap); err != nil {
			t.Fatalf("re-encoded output failed to decode: %v", err)
		}
	})
}
