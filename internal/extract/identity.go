package extract

import (
	"encoding/base64"

	"github.com/vikiman365/scraper/internal/types"
)

const idLength = 20

// BuildID derives a stable identifier for a product record. The seed
// is the first available of SKU, name, URL; the token is the base64
// encoding of the seed truncated to 20 characters with non-alphanumeric
// characters stripped. Truncation can collide for similar seeds, which
// is acceptable for a best-effort identifier.
func BuildID(rec *types.ProductRecord) string {
	seed := rec.SKU
	if seed == "" {
		seed = rec.Name
	}
	if seed == "" {
		seed = rec.URL
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(seed))
	if len(encoded) > idLength {
		encoded = encoded[:idLength]
	}

	out := make([]byte, 0, len(encoded))
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			out = append(out, c)
		}
	}
	return string(out)
}
