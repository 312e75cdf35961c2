package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameFor(t *testing.T) {
	n := NewNamer("documents", ".pdf")

	key := n.NameFor("report.pdf")
	assert.True(t, strings.HasPrefix(key, "documents/report-"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	// Same original name must still yield distinct keys.
	other := n.NameFor("report.pdf")
	assert.NotEqual(t, key, other)
}

func TestNameForSanitizes(t *testing.T) {
	n := NewNamer("documents", ".pdf")

	tests := []struct {
		name     string
		original string
		wantStem string
	}{
		{"spaces and specials", "my report (final).pdf", "my-report--final-"},
		{"path traversal", "../../etc/passwd", "passwd"},
		{"windows path", `C:\temp\notes.pdf`, "notes"},
		{"only specials", "###.pdf", "document"},
		{"empty", "", "document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := n.NameFor(tt.original)
			assert.True(t, strings.HasPrefix(key, "documents/"+tt.wantStem+"-"),
				"key %q should start with %q", key, "documents/"+tt.wantStem+"-")
			assert.NotContains(t, key, "..")
		})
	}
}

func TestNameForTruncatesLongStems(t *testing.T) {
	n := NewNamer("documents", ".pdf")

	key := n.NameFor(strings.Repeat("a", 200) + ".pdf")
	name := strings.TrimSuffix(strings.TrimPrefix(key, "documents/"), ".pdf")
	// Key layout is <stem>-<36-char uuid>; strip the token to get the stem.
	stem := name[:len(name)-37]
	assert.Equal(t, strings.Repeat("a", maxStemLen), stem)
}
