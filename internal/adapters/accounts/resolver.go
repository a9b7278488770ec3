package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/superposition-labs/spdeploy/internal/domain"
	"github.com/superposition-labs/spdeploy/internal/domain/config"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"github.com/superposition-labs/spdeploy/internal/usecase"
)

// Resolver turns [accounts.<name>] entries into signing accounts
type Resolver struct {
	accounts map[string]config.AccountConfig
	log      *slog.Logger
}

// NewResolver creates a new account resolver
func NewResolver(cfg *config.RuntimeConfig, log *slog.Logger) *Resolver {
	r := &Resolver{log: log.With("component", "AccountResolver")}
	if cfg.Project != nil {
		r.accounts = cfg.Project.Accounts
	}
	return r
}

// ResolveAccount returns the signer for a named account on the given network.
// A per-network key takes precedence over the account's default key.
func (r *Resolver) ResolveAccount(ctx context.Context, name string, network *config.Network) (*models.Account, error) {
	acc, ok := r.accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not declared in [accounts]", domain.ErrAccountNotFound, name)
	}

	key := acc.PrivateKey
	if network != nil {
		if override, ok := acc.Networks[network.Name]; ok {
			key = override
		}
	}
	if strings.TrimSpace(key) == "" {
		where := "any network"
		if network != nil {
			where = network.Name
		}
		return nil, fmt.Errorf("%w: account %s has no private key for %s (is the variable set in .env?)", domain.ErrInvalidPrivateKey, name, where)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(key), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: account %s: %v", domain.ErrInvalidPrivateKey, name, err)
	}
	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	if acc.Address != "" && common.HexToAddress(acc.Address) != address {
		return nil, fmt.Errorf("%w: account %s key derives %s but address is configured as %s",
			domain.ErrInvalidAddress, name, address.Hex(), acc.Address)
	}

	r.log.Debug("resolved account", "name", name, "address", address.Hex())

	return &models.Account{
		Name:    name,
		Address: address,
		Key:     privateKey,
	}, nil
}

var _ usecase.AccountResolver = (*Resolver)(nil)
