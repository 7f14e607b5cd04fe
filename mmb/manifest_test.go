package mmb_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mm0-tools/mmbexport/environment"
	"github.com/mm0-tools/mmbexport/mmb"
)

func TestExportWithManifestDigestsTheFlushedBytes(t *testing.T) {
	b := environment.NewBuilder()
	atom := b.Intern("wff")
	b.AddSort(atom, environment.Span{}, 0)
	env, err := b.Build()
	require.NoError(t, err)

	var out bytes.Buffer
	m, err := mmb.ExportWithManifest("test.mm1", nil, env, &out, false)
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, "test.mm1", m.File)
	assert.Equal(t, 1, m.NumSorts)
	assert.Equal(t, 0, m.NumTerms)
	assert.Equal(t, 0, m.NumThms)
	assert.Len(t, m.Digest, 32)
	assert.NotZero(t, out.Len())
}

func TestExportWithManifestIsDeterministic(t *testing.T) {
	b := environment.NewBuilder()
	sortAtom := b.Intern("wff")
	sid := b.AddSort(sortAtom, environment.Span{}, 0)
	termAtom := b.Intern("c")
	b.AddTerm(environment.Term{Atom: termAtom, Ret: environment.Reg(sid, 0), Kind: environment.KindTerm})
	env, err := b.Build()
	require.NoError(t, err)

	var out1, out2 bytes.Buffer
	m1, err := mmb.ExportWithManifest("test.mm1", nil, env, &out1, false)
	require.NoError(t, err)
	m2, err := mmb.ExportWithManifest("test.mm1", nil, env, &out2, false)
	require.NoError(t, err)

	assert.Equal(t, m1.Digest, m2.Digest)
	assert.Equal(t, out1.Bytes(), out2.Bytes())

	body1, err := m1.MarshalCBOR()
	require.NoError(t, err)
	body2, err := m2.MarshalCBOR()
	require.NoError(t, err)
	assert.Equal(t, body1, body2)
}
