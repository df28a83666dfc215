package connpool

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

type EVMPool struct {
	*Pool
}

// NewEVMPool builds a pool of JSON-RPC connections to rawURL.
func NewEVMPool(ctx context.Context, rawURL string, maxConnect int) *EVMPool {
	return &EVMPool{
		Pool: NewPool(int32(maxConnect), func() Closeable {
			client, err := rpc.DialContext(ctx, rawURL)
			if err != nil {
				return nil
			}
			return client
		}),
	}
}

func (e *EVMPool) Call(f func(*ethclient.Client, *rpc.Client) error) error {
	return e.Pool.Call(func(conn Closeable) error {
		client, ok := conn.(*rpc.Client)
		if !ok {
			return ErrConnect
		}
		return f(ethclient.NewClient(client), client)
	})
}
