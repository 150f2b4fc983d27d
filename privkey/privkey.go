package privkey

import (
	"encoding/hex"
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// KeySize is the length in bytes of a secp256k1 private key.
const KeySize = 32

// PrivKey owns the raw bytes of a secp256k1 private key and lazily derives
// the identity chained from them:
//
//	bytes -> signing key -> public key -> account id -> address
//	bytes -> hex
//
// Every derived value is computed at most once per instance and shared by
// all readers, including concurrent ones. A failed derivation is cached the
// same way: the outcome depends on the key bytes only, so a retry would
// fail identically.
//
// A PrivKey must not be copied after first use; use Clone.
type PrivKey struct {
	bytes  [KeySize]byte
	prefix string

	hex        lazy[string]
	signingKey lazy[*btcec.PrivateKey]
	publicKey  lazy[*btcec.PublicKey]
	accountID  lazy[AccountID]
	address    lazy[string]
}

// New builds a PrivKey from exactly KeySize bytes, deriving addresses under
// DefaultPrefix. The content of the bytes is not checked here; an invalid
// scalar is reported by SigningKey and everything chained from it.
func New(bz []byte) (*PrivKey, error) {
	return NewWithPrefix(bz, DefaultPrefix)
}

// NewWithPrefix is like New but derives addresses under the given bech32
// prefix.
func NewWithPrefix(bz []byte, prefix string) (*PrivKey, error) {
	if len(bz) != KeySize {
		return nil, errorsmod.Wrapf(ErrInvalidLength, "expected %d bytes, got %d", KeySize, len(bz))
	}

	pk := &PrivKey{prefix: prefix}
	copy(pk.bytes[:], bz)

	return pk, nil
}

// Bytes returns a copy of the raw key, which is the payload written to key
// files.
func (pk *PrivKey) Bytes() []byte {
	bz := make([]byte, KeySize)
	copy(bz, pk.bytes[:])
	return bz
}

func (pk *PrivKey) Prefix() string {
	return pk.prefix
}

// Hex returns the lowercase hex encoding of the key.
func (pk *PrivKey) Hex() (string, error) {
	return pk.hex.get(func() (string, error) {
		return hex.EncodeToString(pk.bytes[:]), nil
	})
}

// SigningKey interprets the key bytes as a secp256k1 scalar. Zero and values
// not below the curve order are rejected.
func (pk *PrivKey) SigningKey() (*btcec.PrivateKey, error) {
	return pk.signingKey.get(func() (*btcec.PrivateKey, error) {
		var scalar secp256k1.ModNScalar
		if overflow := scalar.SetBytes(&pk.bytes); overflow != 0 {
			return nil, errorsmod.Wrap(ErrDerivation, "invalid scalar: not below the curve order")
		}
		if scalar.IsZero() {
			return nil, errorsmod.Wrap(ErrDerivation, "invalid scalar: zero")
		}

		return secp256k1.NewPrivateKey(&scalar), nil
	})
}

func (pk *PrivKey) PublicKey() (*btcec.PublicKey, error) {
	return pk.publicKey.get(func() (*btcec.PublicKey, error) {
		sk, err := pk.SigningKey()
		if err != nil {
			return nil, err
		}
		return sk.PubKey(), nil
	})
}

func (pk *PrivKey) AccountID() (AccountID, error) {
	return pk.accountID.get(func() (AccountID, error) {
		pub, err := pk.PublicKey()
		if err != nil {
			return AccountID{}, err
		}
		return NewAccountID(pub, pk.prefix)
	})
}

// Address returns the bech32 rendering of AccountID.
func (pk *PrivKey) Address() (string, error) {
	return pk.address.get(func() (string, error) {
		acc, err := pk.AccountID()
		if err != nil {
			return "", err
		}
		return acc.String(), nil
	})
}

// Equal reports whether both keys have the same hex encoding. A key whose
// hex cannot be derived equals nothing.
func (pk *PrivKey) Equal(other *PrivKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}

	a, err := pk.Hex()
	if err != nil {
		return false
	}
	b, err := other.Hex()
	if err != nil {
		return false
	}

	return strings.EqualFold(a, b)
}

// Clone returns an equivalent key with empty derivation caches.
func (pk *PrivKey) Clone() *PrivKey {
	return pk.WithPrefix(pk.prefix)
}

// WithPrefix returns a copy of the key deriving addresses under prefix.
func (pk *PrivKey) WithPrefix(prefix string) *PrivKey {
	clone := &PrivKey{prefix: prefix}
	clone.bytes = pk.bytes
	return clone
}

// String renders the key by its address, never by its secret.
func (pk *PrivKey) String() string {
	addr, err := pk.Address()
	if err != nil {
		return fmt.Sprintf("PrivKey{address: <%v>}", err)
	}
	return fmt.Sprintf("PrivKey{address: %q}", addr)
}

// GoString keeps %#v from printing the key bytes.
func (pk *PrivKey) GoString() string {
	return pk.String()
}
