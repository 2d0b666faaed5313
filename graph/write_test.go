package graph

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteNTriples(t *testing.T) {
	g := New()
	_, err := g.Parse(strings.NewReader(rootTurtle), FormatTurtle, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.Write(&buf, FormatNTriples))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, buf.String(), "<https://ex.org/root> <http://www.w3.org/2002/07/owl#imports> <https://ex.org/a> .")

	again := New()
	added, err := again.Parse(&buf, FormatNTriples, "")
	require.NoError(t, err)
	assert.Equal(t, 4, added)
	for _, tr := range g.Triples() {
		assert.True(t, again.Has(tr), tr.String())
	}
}

func TestWriteIsStable(t *testing.T) {
	g := New()
	_, err := g.Parse(strings.NewReader(rootTurtle), FormatTurtle, "")
	require.NoError(t, err)

	var a, b bytes.Buffer
	require.NoError(t, g.Write(&a, FormatNTriples))
	require.NoError(t, g.Write(&b, FormatNTriples))
	assert.Equal(t, a.String(), b.String())
}

func TestWriteTurtleRoundTrip(t *testing.T) {
	g := New()
	_, err := g.Parse(strings.NewReader(importXML), FormatRDFXML, "")
	require.NoError(t, err)
	_, err = g.Parse(strings.NewReader(rootTurtle), FormatTurtle, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.Write(&buf, FormatTurtle))

	again := New()
	_, err = again.Parse(&buf, FormatTurtle, "")
	require.NoError(t, err)
	assert.Equal(t, g.Len(), again.Len())
	assert.Equal(t, g.Objects(owlImports), again.Objects(owlImports))
}

func TestWriteRDFXMLUnsupported(t *testing.T) {
	err := New().Write(&bytes.Buffer{}, FormatRDFXML)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteFile(t *testing.T) {
	g := New()
	_, err := g.Parse(strings.NewReader(rootTurtle), FormatTurtle, "")
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "out", "merged.nt")
	require.NoError(t, g.WriteFile(path, ""))

	again := New()
	added, err := again.ParseFile(path, FormatNTriples)
	require.NoError(t, err)
	assert.Equal(t, 4, added)

	err = g.WriteFile(filepath.Join(dir, "merged.unknown"), "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
