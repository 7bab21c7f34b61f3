package daemon

import "fmt"

// connManSeed is used for both identifiers of every stub, so fixtures are
// deterministic across runs.
const connManSeed = uint64(0x1337)

// ConnectionManager is a network-layer stub. It manages no connections, it
// only carries the deterministic identifier pair a node would normally
// derive at random.
type ConnectionManager struct {
	LocalSeed  uint64
	RemoteSeed uint64
}

func NewConnectionManagerStub() *ConnectionManager {
	return &ConnectionManager{
		LocalSeed:  connManSeed,
		RemoteSeed: connManSeed,
	}
}

func (c *ConnectionManager) String() string {
	return fmt.Sprintf("connman stub (local %#x, remote %#x)", c.LocalSeed, c.RemoteSeed)
}
