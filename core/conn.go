package core

import (
	"context"
	"sync"

	"github.com/wowBlaBla/beefy-contracts/connpool"
)

const maxConnectPerRPC = 2

var (
	conns       = make(map[string]*connpool.EVMPool)
	connMapLock sync.Mutex
)

// getConnectPool shares one pool per RPC endpoint across every Client.
func getConnectPool(rpcURL string) *connpool.EVMPool {
	connMapLock.Lock()
	defer connMapLock.Unlock()
	if p, ok := conns[rpcURL]; ok {
		return p
	}
	conns[rpcURL] = connpool.NewEVMPool(context.Background(), rpcURL, maxConnectPerRPC)
	return conns[rpcURL]
}

// CloseConnections closes every pooled RPC connection.
func CloseConnections() {
	connMapLock.Lock()
	defer connMapLock.Unlock()
	for url, p := range conns {
		p.Close()
		delete(conns, url)
	}
}
