package plutus

// SpendAction selects the spending validator branch. The wire encoding is a
// constructor with no fields whose tag is the action value.
type SpendAction uint64

const (
	// SpendUpdate is the authority-gated branch used by ordinary payload
	// updates.
	SpendUpdate SpendAction = 0
	// SpendPrivileged is the owner-gated branch used by reassignments and
	// withdrawals.
	SpendPrivileged SpendAction = 1
)

// Data returns the redeemer wire value for the action.
func (a SpendAction) Data() Data {
	return NewConstr(uint64(a))
}

func (a SpendAction) String() string {
	switch a {
	case SpendUpdate:
		return "update"
	case SpendPrivileged:
		return "privileged"
	default:
		return "unknown"
	}
}

// MintAction selects the minting policy branch.
type MintAction uint64

// MintIssue is the only minting branch in use: issue the singleton token.
const MintIssue MintAction = 0

// Data returns the redeemer wire value for the action.
func (a MintAction) Data() Data {
	return NewConstr(uint64(a))
}
