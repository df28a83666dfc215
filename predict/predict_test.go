package predict

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var creator = common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")

type fakeNonces struct {
	nonce uint64
	err   error
	asked common.Address
}

func (f *fakeNonces) NonceAt(_ context.Context, account common.Address) (uint64, error) {
	f.asked = account
	return f.nonce, f.err
}

func TestFromNonce(t *testing.T) {
	got := FromNonce(creator, 0)
	assert.Equal(t, common.HexToAddress("0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d"), got.Vault)
	assert.Equal(t, common.HexToAddress("0x343c43a37d37dff08ae8c4a11544c718abb4fcf8"), got.Strategy)

	got = FromNonce(creator, 127)
	assert.Equal(t, common.HexToAddress("0x06d9a77f5e4b311bae8d559db9cdb4df94104aa0"), got.Vault)
	assert.Equal(t, common.HexToAddress("0x08e190dcb7b73f5fcdabb43e102215c83659a76d"), got.Strategy)
}

func TestPredictor_Predict(t *testing.T) {
	nonces := &fakeNonces{nonce: 1}
	var dialed string
	p := NewWithDialer(func(rpc string) NonceSource {
		dialed = rpc
		return nonces
	})

	got, err := p.Predict(context.Background(), creator, "https://rpc.ftm.tools")
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.ftm.tools", dialed)
	assert.Equal(t, creator, nonces.asked)
	assert.Equal(t, common.HexToAddress("0x343c43a37d37dff08ae8c4a11544c718abb4fcf8"), got.Vault)
	assert.Equal(t, common.HexToAddress("0xf778b86fa74e846c4f0a1fbd1335fe81c00a0c91"), got.Strategy)
}

func TestPredictor_NonceError(t *testing.T) {
	p := NewWithDialer(func(string) NonceSource {
		return &fakeNonces{err: errors.New("connection refused")}
	})

	_, err := p.Predict(context.Background(), creator, "http://127.0.0.1:8545")
	assert.ErrorContains(t, err, "connection refused")
}
