package rentledger

import (
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/goether"
	"github.com/rentlabs/rentledger/schema"
	"github.com/stretchr/testify/assert"
)

func TestVerifyCallerSig(t *testing.T) {
	signer, err := goether.NewSigner("4c3f9a1e5b234ce8f1ab58d82f849c0f70a4d5ceaf2b6e2d9a6c58b1f897ef0a")
	assert.NoError(t, err)

	now := time.Now().Unix()
	ts := strconv.FormatInt(now, 10)
	sig, err := signer.SignMsg([]byte(ts))
	assert.NoError(t, err)

	addr := signer.Address.Hex()
	assert.NoError(t, verifyCallerSig(addr, ts, hexutil.Encode(sig), now))

	// wrong identity
	err = verifyCallerSig(testAdmin, ts, hexutil.Encode(sig), now)
	assert.Equal(t, schema.ErrInvalidSignature, err)

	// stale timestamp
	staleTs := strconv.FormatInt(now-3600, 10)
	staleSig, err := signer.SignMsg([]byte(staleTs))
	assert.NoError(t, err)
	err = verifyCallerSig(addr, staleTs, hexutil.Encode(staleSig), now)
	assert.Equal(t, schema.ErrInvalidSignature, err)

	// missing pieces
	assert.Equal(t, schema.ErrInvalidSignature, verifyCallerSig(addr, "", "", now))
	assert.Equal(t, schema.ErrInvalidSignature, verifyCallerSig(addr, ts, "zzz", now))
}
