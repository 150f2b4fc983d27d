package testutil

import (
	"encoding/hex"
	"math/rand"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/orga-wallet/orgakey/privkey"
)

func GenRandomByteArray(r *rand.Rand, length uint64) []byte {
	newHeaderBytes := make([]byte, length)
	r.Read(newHeaderBytes)
	return newHeaderBytes
}

func GenRandomHexStr(r *rand.Rand, length uint64) string {
	randBytes := GenRandomByteArray(r, length)
	return hex.EncodeToString(randBytes)
}

func AddRandomSeedsToFuzzer(f *testing.F, num uint) {
	// Seed based on the current time
	r := rand.New(rand.NewSource(time.Now().Unix()))
	var idx uint
	for idx = 0; idx < num; idx++ {
		f.Add(r.Int63())
	}
}

// GenRandomKeyBytes returns 32 bytes holding a valid secp256k1 scalar.
func GenRandomKeyBytes(r *rand.Rand) []byte {
	for {
		bz := GenRandomByteArray(r, privkey.KeySize)
		var scalar secp256k1.ModNScalar
		if overflow := scalar.SetByteSlice(bz); !overflow && !scalar.IsZero() {
			return bz
		}
	}
}

func GenRandomPrivKey(r *rand.Rand, t *testing.T) *privkey.PrivKey {
	pk, err := privkey.New(GenRandomKeyBytes(r))
	require.NoError(t, err)
	return pk
}
