package models

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
)

// Account is a named signer resolved for a specific network
type Account struct {
	Name    string
	Address common.Address
	Key     *ecdsa.PrivateKey
}
