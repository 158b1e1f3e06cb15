package timelock

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Role identifiers, keccak256 of the role name as in AccessControl.
var (
	DefaultAdminRole = common.Hash{}
	ProposerRole     = crypto.Keccak256Hash([]byte("PROPOSER_ROLE"))
	ExecutorRole     = crypto.Keccak256Hash([]byte("EXECUTOR_ROLE"))
	CancellerRole    = crypto.Keccak256Hash([]byte("CANCELLER_ROLE"))
)

// RoleName returns a readable name for the well-known roles.
func RoleName(role common.Hash) string {
	switch role {
	case DefaultAdminRole:
		return "DEFAULT_ADMIN_ROLE"
	case ProposerRole:
		return "PROPOSER_ROLE"
	case ExecutorRole:
		return "EXECUTOR_ROLE"
	case CancellerRole:
		return "CANCELLER_ROLE"
	}
	return role.Hex()
}

// ParseRole accepts a role name ("proposer", "PROPOSER_ROLE", ...) or a hex id.
func ParseRole(s string) (common.Hash, bool) {
	switch s {
	case "admin", "DEFAULT_ADMIN_ROLE":
		return DefaultAdminRole, true
	case "proposer", "PROPOSER_ROLE":
		return ProposerRole, true
	case "executor", "EXECUTOR_ROLE":
		return ExecutorRole, true
	case "canceller", "CANCELLER_ROLE":
		return CancellerRole, true
	}
	if len(s) == 66 && s[:2] == "0x" {
		return common.HexToHash(s), true
	}
	return common.Hash{}, false
}
