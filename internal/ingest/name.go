package ingest

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxStemLen = 64

// Namer derives storage keys for accepted uploads. Keys combine the
// sanitized stem of the original name with a uuid token, so two uploads
// sharing a name never collide on a key.
type Namer struct {
	prefix string
	ext    string
}

// NewNamer builds a Namer placing keys under prefix with the fixed
// extension ext (e.g. ".pdf").
func NewNamer(prefix, ext string) Namer {
	return Namer{prefix: prefix, ext: ext}
}

// NameFor returns a new storage key for originalName. The original name is
// untrusted display data; only its sanitized stem survives into the key.
func (n Namer) NameFor(originalName string) string {
	name := sanitizeStem(originalName) + "-" + uuid.NewString() + n.ext
	return path.Join(n.prefix, name)
}

// sanitizeStem reduces an untrusted filename to a safe key fragment:
// directories and extension stripped, non [a-zA-Z0-9._-] runes replaced.
func sanitizeStem(name string) string {
	base := filepath.Base(filepath.FromSlash(name))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}

	out := strings.Trim(b.String(), ".-")
	if len(out) > maxStemLen {
		out = out[:maxStemLen]
	}
	if out == "" {
		return "document"
	}
	return out
}
