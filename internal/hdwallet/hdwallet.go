// Package hdwallet derives secp256k1 accounts from a BIP-39 mnemonic.
package hdwallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/celo-org/celo-blockchain/accounts"
	"github.com/celo-org/celo-blockchain/common"
	"github.com/celo-org/celo-blockchain/crypto"
	"github.com/tyler-smith/go-bip39"
)

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// Wallet is a BIP-32 master key.
type Wallet struct {
	masterKey *hdkeychain.ExtendedKey
}

// NewFromMnemonic creates a wallet from a BIP-39 mnemonic without passphrase.
func NewFromMnemonic(mnemonic string) (*Wallet, error) {
	return newFromMnemonic(mnemonic, "")
}

func newFromMnemonic(mnemonic, passphrase string) (*Wallet, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	masterKey, err := hdkeychain.NewMaster(bip39.NewSeed(mnemonic, passphrase), &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}
	return &Wallet{masterKey: masterKey}, nil
}

// PrivateKey returns the key at path.
func (w *Wallet) PrivateKey(path accounts.DerivationPath) (*ecdsa.PrivateKey, error) {
	key := w.masterKey
	for _, n := range path {
		var err error
		if key, err = key.Derive(n); err != nil {
			return nil, fmt.Errorf("derive %s: %w", path, err)
		}
	}
	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return priv.ToECDSA(), nil
}

// Derive returns the account at path.
func (w *Wallet) Derive(path accounts.DerivationPath) (accounts.Account, error) {
	key, err := w.PrivateKey(path)
	if err != nil {
		return accounts.Account{}, err
	}
	return accounts.Account{
		Address: crypto.PubkeyToAddress(key.PublicKey),
		URL:     accounts.URL{Scheme: "hd", Path: path.String()},
	}, nil
}

// Address returns the address of the account at path.
func (w *Wallet) Address(path accounts.DerivationPath) (common.Address, error) {
	account, err := w.Derive(path)
	if err != nil {
		return common.Address{}, err
	}
	return account.Address, nil
}

// ParseDerivationPath parses a BIP-32 derivation path like m/44'/52752'/0'/0/0.
func ParseDerivationPath(path string) (accounts.DerivationPath, error) {
	return accounts.ParseDerivationPath(path)
}

// MustParseDerivationPath parses path and panics on error.
func MustParseDerivationPath(path string) accounts.DerivationPath {
	parsed, err := ParseDerivationPath(path)
	if err != nil {
		panic(err)
	}
	return parsed
}
