package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	OrderIDPrefix       = "CHT"
	orderIDSuffixLength = 5
	base36Upper         = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GenerateOrderID builds the public order token CHT-<unix millis>-<5 base36 chars>.
func GenerateOrderID(now time.Time) (string, error) {
	suffix := make([]byte, orderIDSuffixLength)
	max := big.NewInt(int64(len(base36Upper)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate order id: %w", err)
		}
		suffix[i] = base36Upper[n.Int64()]
	}
	return fmt.Sprintf("%s-%d-%s", OrderIDPrefix, now.UnixMilli(), suffix), nil
}
