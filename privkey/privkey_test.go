package privkey_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	sdksecp256k1 "github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/stretchr/testify/require"

	"github.com/orga-wallet/orgakey/privkey"
	"github.com/orga-wallet/orgakey/testutil"
)

const (
	curveOrderHex = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"
	generatorHex  = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
)

func mustDecodeHex(t *testing.T, s string) []byte {
	bz, err := hex.DecodeString(s)
	require.NoError(t, err)
	return bz
}

func FuzzHexRoundTrip(f *testing.F) {
	testutil.AddRandomSeedsToFuzzer(f, 10)
	f.Fuzz(func(t *testing.T, seed int64) {
		r := rand.New(rand.NewSource(seed))

		// any 32 bytes are accepted, valid scalar or not
		bz := testutil.GenRandomByteArray(r, privkey.KeySize)
		pk, err := privkey.New(bz)
		require.NoError(t, err)

		h, err := pk.Hex()
		require.NoError(t, err)
		require.Equal(t, bytes.ToLower([]byte(h)), []byte(h))

		decoded, err := hex.DecodeString(h)
		require.NoError(t, err)
		require.Equal(t, bz, decoded)
		require.Equal(t, bz, pk.Bytes())
	})
}

func FuzzAddressDeterministic(f *testing.F) {
	testutil.AddRandomSeedsToFuzzer(f, 10)
	f.Fuzz(func(t *testing.T, seed int64) {
		r := rand.New(rand.NewSource(seed))
		bz := testutil.GenRandomKeyBytes(r)

		pk1, err := privkey.New(bz)
		require.NoError(t, err)
		pk2, err := privkey.New(bz)
		require.NoError(t, err)

		addr, err := pk1.Address()
		require.NoError(t, err)
		again, err := pk1.Address()
		require.NoError(t, err)
		other, err := pk2.Address()
		require.NoError(t, err)

		require.Equal(t, addr, again)
		require.Equal(t, addr, other)

		// cross check against an independent derivation
		_, btcPk := btcec.PrivKeyFromBytes(bz)
		sdkPk := &sdksecp256k1.PubKey{Key: btcPk.SerializeCompressed()}
		expected, err := bech32.ConvertAndEncode(privkey.DefaultPrefix, sdkPk.Address().Bytes())
		require.NoError(t, err)
		require.Equal(t, expected, addr)

		acc, err := pk1.AccountID()
		require.NoError(t, err)
		require.Equal(t, privkey.DefaultPrefix, acc.Prefix())
		require.Equal(t, []byte(sdkPk.Address().Bytes()), acc.Bytes())
		require.Equal(t, addr, acc.String())

		pub, err := pk1.PublicKey()
		require.NoError(t, err)
		require.True(t, pub.IsEqual(btcPk))
	})
}

func TestNewRejectsInvalidLength(t *testing.T) {
	for _, n := range []int{0, 1, 31, 33, 64} {
		t.Run(fmt.Sprintf("len=%d", n), func(t *testing.T) {
			_, err := privkey.New(make([]byte, n))
			require.ErrorIs(t, err, privkey.ErrInvalidLength)
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	bz := bytes.Repeat([]byte{0x01}, privkey.KeySize)
	pk, err := privkey.New(bz)
	require.NoError(t, err)

	bz[0] = 0xff
	require.Equal(t, byte(0x01), pk.Bytes()[0])

	out := pk.Bytes()
	out[1] = 0xff
	require.Equal(t, byte(0x01), pk.Bytes()[1])
}

func TestZeroKeyFailurePropagates(t *testing.T) {
	pk, err := privkey.New(make([]byte, privkey.KeySize))
	require.NoError(t, err)

	h, err := pk.Hex()
	require.NoError(t, err)
	require.Equal(t, "0000000000000000000000000000000000000000000000000000000000000000", h)

	_, skErr := pk.SigningKey()
	require.ErrorIs(t, skErr, privkey.ErrDerivation)

	_, err = pk.PublicKey()
	require.ErrorIs(t, err, privkey.ErrDerivation)
	require.Equal(t, skErr.Error(), err.Error())

	_, err = pk.AccountID()
	require.Equal(t, skErr.Error(), err.Error())

	_, err = pk.Address()
	require.Equal(t, skErr.Error(), err.Error())

	// failures are cached
	_, again := pk.Address()
	require.Equal(t, err, again)

	require.Contains(t, pk.String(), "invalid scalar")
}

func TestScalarRange(t *testing.T) {
	order := mustDecodeHex(t, curveOrderHex)

	pk, err := privkey.New(order)
	require.NoError(t, err)
	_, err = pk.SigningKey()
	require.ErrorIs(t, err, privkey.ErrDerivation)

	allOnes := bytes.Repeat([]byte{0xff}, privkey.KeySize)
	pk, err = privkey.New(allOnes)
	require.NoError(t, err)
	_, err = pk.Address()
	require.ErrorIs(t, err, privkey.ErrDerivation)

	belowOrder := append([]byte(nil), order...)
	belowOrder[privkey.KeySize-1]--
	pk, err = privkey.New(belowOrder)
	require.NoError(t, err)
	sk, err := pk.SigningKey()
	require.NoError(t, err)
	require.Equal(t, belowOrder, sk.Serialize())

	one := make([]byte, privkey.KeySize)
	one[privkey.KeySize-1] = 1
	pk, err = privkey.New(one)
	require.NoError(t, err)
	pub, err := pk.PublicKey()
	require.NoError(t, err)
	// 1*G is the generator point
	require.Equal(t, generatorHex, hex.EncodeToString(pub.SerializeCompressed()))
}

func TestPrefix(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	bz := testutil.GenRandomKeyBytes(r)

	nomic, err := privkey.New(bz)
	require.NoError(t, err)
	addr, err := nomic.Address()
	require.NoError(t, err)
	require.Regexp(t, "^nomic1[02-9ac-hj-np-z]+$", addr)

	cosmos, err := privkey.NewWithPrefix(bz, "cosmos")
	require.NoError(t, err)
	cosmosAddr, err := cosmos.Address()
	require.NoError(t, err)
	require.Regexp(t, "^cosmos1", cosmosAddr)

	// same account hash under both prefixes
	nomicAcc, err := nomic.AccountID()
	require.NoError(t, err)
	cosmosAcc, err := cosmos.AccountID()
	require.NoError(t, err)
	require.Equal(t, nomicAcc.Bytes(), cosmosAcc.Bytes())

	rebound := cosmos.WithPrefix(privkey.DefaultPrefix)
	reboundAddr, err := rebound.Address()
	require.NoError(t, err)
	require.Equal(t, addr, reboundAddr)

	empty, err := privkey.NewWithPrefix(bz, "")
	require.NoError(t, err)
	_, err = empty.SigningKey()
	require.NoError(t, err)
	_, err = empty.AccountID()
	require.ErrorIs(t, err, privkey.ErrDerivation)
	_, err = empty.Address()
	require.ErrorIs(t, err, privkey.ErrDerivation)
}

func TestEqualAndClone(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	bz := testutil.GenRandomKeyBytes(r)

	a, err := privkey.New(bz)
	require.NoError(t, err)
	b, err := privkey.New(bz)
	require.NoError(t, err)
	c := testutil.GenRandomPrivKey(r, t)

	require.True(t, a.Equal(b))
	require.True(t, b.Equal(a))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(nil))

	// invalid scalars still compare by their bytes
	zero1, err := privkey.New(make([]byte, privkey.KeySize))
	require.NoError(t, err)
	zero2, err := privkey.New(make([]byte, privkey.KeySize))
	require.NoError(t, err)
	require.True(t, zero1.Equal(zero2))

	addr, err := a.Address()
	require.NoError(t, err)

	clone := a.Clone()
	require.NotSame(t, a, clone)
	require.True(t, a.Equal(clone))
	require.Equal(t, a.Prefix(), clone.Prefix())
	cloneAddr, err := clone.Address()
	require.NoError(t, err)
	require.Equal(t, addr, cloneAddr)
}

func TestStringHidesSecret(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	pk := testutil.GenRandomPrivKey(r, t)

	h, err := pk.Hex()
	require.NoError(t, err)
	addr, err := pk.Address()
	require.NoError(t, err)

	for _, s := range []string{pk.String(), fmt.Sprintf("%v", pk), fmt.Sprintf("%#v", pk)} {
		require.Equal(t, fmt.Sprintf("PrivKey{address: %q}", addr), s)
		require.NotContains(t, s, h)
	}
}

func TestConcurrentDerivation(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	pk := testutil.GenRandomPrivKey(r, t)

	const readers = 32
	zeroKey := mustZeroKey(t)
	addrs := make([]string, readers)
	signers := make([]*btcec.PrivateKey, readers)
	errs := make([]error, readers)
	zeroErrs := make([]error, readers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			addrs[i], errs[i] = pk.Address()
			signers[i], _ = pk.SigningKey()
			_, zeroErrs[i] = zeroKey.Address()
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < readers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, addrs[0], addrs[i])
		// every reader observes the very same cached signing key
		require.Same(t, signers[0], signers[i])
		require.True(t, errors.Is(zeroErrs[i], privkey.ErrDerivation))
		require.Equal(t, zeroErrs[0], zeroErrs[i])
	}
}

func mustZeroKey(t *testing.T) *privkey.PrivKey {
	pk, err := privkey.New(make([]byte, privkey.KeySize))
	require.NoError(t, err)
	return pk
}
