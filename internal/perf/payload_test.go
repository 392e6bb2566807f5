package perf

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRandomPayload(t *testing.T) {
	p := randomPayload(256, rand.New(rand.NewSource(1)))

	require.Len(t, p, 256)
	for _, c := range p {
		assert.True(t, c >= 'A' && c <= 'Z', "unexpected byte %q", c)
	}
}

func TestNewPayloadSource_RecordSizeRepeatsPayload(t *testing.T) {
	next, err := newPayloadSource(Options{RecordSize: 10}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	first := next()
	assert.Len(t, first, 10)
	assert.Equal(t, first, next())
}

func TestNewPayloadSource_PayloadFile(t *testing.T) {
	path := writeFile(t, "payloads.txt", "alpha;beta;;gamma;")
	next, err := newPayloadSource(Options{PayloadFile: path, PayloadDelimiter: ";"}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[string(next())] = true
	}
	assert.Equal(t, map[string]bool{"alpha": true, "beta": true, "gamma": true}, seen)
}

func TestReadPayloads(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		delimiter string
		want      []string
		wantErr   string
	}{
		{name: "newline", content: "a\nb\n", delimiter: "\n", want: []string{"a", "b"}},
		{name: "empty delimiter falls back to newline", content: "a\nb", delimiter: "", want: []string{"a", "b"}},
		{name: "multi-byte delimiter", content: "a||b||c", delimiter: "||", want: []string{"a", "b", "c"}},
		{name: "only delimiters", content: "\n\n", delimiter: "\n", wantErr: "does not contain any payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPayloads(writeFile(t, "p.txt", tt.content), tt.delimiter)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			var s []string
			for _, p := range got {
				s = append(s, string(p))
			}
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestReadPayloads_MissingFile(t *testing.T) {
	_, err := readPayloads(filepath.Join(t.TempDir(), "missing"), "\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read payload file")
}
