package naming

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSuffix returns n random lowercase base36 characters.
func NewSuffix(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid suffix length %d", n)
	}
	max := big.NewInt(int64(len(suffixAlphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate random suffix: %w", err)
		}
		b.WriteByte(suffixAlphabet[v.Int64()])
	}
	return b.String(), nil
}

// JobName joins prefix and suffix as <prefix>-<suffix>.
func JobName(prefix, suffix string) string {
	return prefix + "-" + suffix
}

// HasJobPrefix reports whether name looks like a job directory of prefix.
func HasJobPrefix(name, prefix string) bool {
	return strings.HasPrefix(name, prefix+"-")
}
