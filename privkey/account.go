package privkey

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/btcsuite/btcd/btcec/v2"
	sdksecp256k1 "github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// DefaultPrefix is the bech32 human readable part of account addresses
// derived by New.
const DefaultPrefix = "nomic"

// AccountID identifies an account on a network: the 20-byte hash of the
// compressed public key scoped by the network's bech32 prefix.
type AccountID struct {
	prefix  string
	address sdk.AccAddress
	bech32  string
}

// NewAccountID derives the account identifier of pk under prefix.
func NewAccountID(pk *btcec.PublicKey, prefix string) (AccountID, error) {
	sdkPk := &sdksecp256k1.PubKey{Key: pk.SerializeCompressed()}
	addr := sdk.AccAddress(sdkPk.Address().Bytes())

	bech, err := sdk.Bech32ifyAddressBytes(prefix, addr)
	if err != nil {
		return AccountID{}, errorsmod.Wrapf(ErrDerivation, "failed to encode address with prefix %q: %v", prefix, err)
	}

	return AccountID{
		prefix:  prefix,
		address: addr,
		bech32:  bech,
	}, nil
}

func (a AccountID) Prefix() string {
	return a.prefix
}

// Bytes returns the raw address hash.
func (a AccountID) Bytes() []byte {
	return append([]byte(nil), a.address...)
}

// String renders the bech32 address.
func (a AccountID) String() string {
	return a.bech32
}
