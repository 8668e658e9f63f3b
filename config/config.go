// Package config loads and validates the miner binary's environment-variable
// configuration: domain identity, signing keys, coinbase destination, and
// the database connection string.
package config

import (
	"net/url"
	"os"

	"github.com/earthbucks/ebxd/errors"
	"github.com/earthbucks/ebxd/model"
)

// Config is the fully validated runtime configuration for the miner.
type Config struct {
	Domain         string
	DomainKeyPair  *model.KeyPair
	CoinbasePkh    *model.Pkh
	AdminPubKey    *model.PubKey
	DatabaseURL    string
	DatabaseURLObj *url.URL
}

// Load reads and validates the miner's environment variables. Every
// failure is a configuration error; none of them are retryable.
func Load() (*Config, error) {
	const op = "config.Load"

	domain := os.Getenv("DOMAIN")
	if domain == "" {
		return nil, errors.NewConfigurationError(op, "DOMAIN is required")
	}
	if !model.IsValidDomain(domain) {
		return nil, errors.NewConfigurationError(op, "DOMAIN %q is not a valid domain", domain)
	}

	privKeyStr := os.Getenv("DOMAIN_PRIV_KEY")
	if privKeyStr == "" {
		return nil, errors.NewConfigurationError(op, "DOMAIN_PRIV_KEY is required")
	}
	privKey, err := model.PrivKeyFromString(privKeyStr)
	if err != nil {
		return nil, errors.NewConfigurationError(op, "invalid DOMAIN_PRIV_KEY", err)
	}
	keyPair, err := model.KeyPairFromPrivKey(privKey)
	if err != nil {
		return nil, errors.NewConfigurationError(op, "unable to derive key pair from DOMAIN_PRIV_KEY", err)
	}

	coinbasePkhStr := os.Getenv("COINBASE_PKH")
	if coinbasePkhStr == "" {
		return nil, errors.NewConfigurationError(op, "COINBASE_PKH is required")
	}
	coinbasePkh, err := model.PkhFromString(coinbasePkhStr)
	if err != nil {
		return nil, errors.NewConfigurationError(op, "invalid COINBASE_PKH", err)
	}

	adminPubKeyStr := os.Getenv("ADMIN_PUB_KEY")
	if adminPubKeyStr == "" {
		return nil, errors.NewConfigurationError(op, "ADMIN_PUB_KEY is required")
	}
	adminPubKey, err := model.PubKeyFromString(adminPubKeyStr)
	if err != nil {
		return nil, errors.NewConfigurationError(op, "invalid ADMIN_PUB_KEY", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.NewConfigurationError(op, "DATABASE_URL is required")
	}
	dbURLObj, err := url.Parse(dbURL)
	if err != nil {
		return nil, errors.NewConfigurationError(op, "invalid DATABASE_URL", err)
	}

	return &Config{
		Domain:         domain,
		DomainKeyPair:  keyPair,
		CoinbasePkh:    coinbasePkh,
		AdminPubKey:    adminPubKey,
		DatabaseURL:    dbURL,
		DatabaseURLObj: dbURLObj,
	}, nil
}
