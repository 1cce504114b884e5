package domain

// OperationType is the enumerated activity code an operator assigns when
// validating a journey. The codes come from the billing system and are opaque
// here, except for the handful that carry no worksite.
type OperationType int

// Operation codes that close a journey without a worksite (internal moves,
// maintenance, garage returns).
const (
	OperationInternal    OperationType = 4
	OperationMaintenance OperationType = 16
	OperationGarage      OperationType = 30
)

// RequiresWorksite reports whether a validation with this operation type must
// name a worksite. Entries for the exempt codes are stored with an empty
// worksite id.
func (op OperationType) RequiresWorksite() bool {
	switch op {
	case OperationInternal, OperationMaintenance, OperationGarage:
		return false
	}
	return true
}
