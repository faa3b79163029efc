package checkout

import (
	"crypto/rand"
	"math/big"
)

const (
	orderIDPrefix   = "TKT-"
	orderIDLength   = 5
	orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewOrderID returns TKT- followed by five characters from [A-Z0-9].
func NewOrderID() (string, error) {
	buf := make([]byte, orderIDLength)
	max := big.NewInt(int64(len(orderIDAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = orderIDAlphabet[n.Int64()]
	}
	return orderIDPrefix + string(buf), nil
}
