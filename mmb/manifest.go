package mmb

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/mm0-tools/mmbexport/environment"
)

// Manifest is a small sidecar record describing one export: enough for a
// build system to decide whether a cached .mmb file is still current
// without re-reading and re-hashing it by hand.
type Manifest struct {
	File     string `cbor:"file"`
	NumSorts int    `cbor:"num_sorts"`
	NumTerms int    `cbor:"num_terms"`
	NumThms  int    `cbor:"num_thms"`
	Digest   []byte `cbor:"digest"` // BLAKE2b-256 of the exported bytes
}

// MarshalCBOR encodes m using the deterministic (canonical) CBOR encoding,
// so two exports of the same environment produce byte-identical manifests.
func (m *Manifest) MarshalCBOR() ([]byte, error) {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	type alias Manifest // avoid recursing back into this method
	return mode.Marshal((*alias)(m))
}

// ExportWithManifest runs a full export into an in-memory BigBuffer so the
// finished bytes can be hashed, flushes the file to out, and returns a
// Manifest describing it. index controls whether a debugging index is
// included, exactly as in Exporter.Run.
func ExportWithManifest(fileName string, source *environment.LineIndex, env *environment.Environment, out io.Writer, index bool) (*Manifest, error) {
	bb := NewBigBuffer(out)
	exp := NewExporter(fileName, source, env, bb)
	if err := exp.Run(index); err != nil {
		return nil, err
	}
	if err := exp.Finish(); err != nil {
		return nil, err
	}

	digest := blake2b.Sum256(bb.Bytes())
	m := &Manifest{
		File:     fileName,
		NumSorts: len(env.Sorts()),
		NumTerms: len(env.Terms()),
		NumThms:  len(env.Thms()),
		Digest:   digest[:],
	}

	if err := bb.Finish(); err != nil {
		return nil, err
	}
	return m, nil
}
