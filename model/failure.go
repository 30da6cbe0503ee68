package model

import "fmt"

// Store operations reported in failures.
const (
	OpLoad           = "load"
	OpCreateNode     = "create_node"
	OpUpdateNode     = "update_node"
	OpDeleteNode     = "delete_node"
	OpCreateRelation = "create_relation"
	OpDeleteRelation = "delete_relation"
)

// StoreFailure is a store call that was rejected. Local state is left as it
// was before the mutation; the user may simply try again.
type StoreFailure struct {
	Op  string
	ID  string
	Err error
}

func (f *StoreFailure) Error() string {
	if f.ID == "" {
		return fmt.Sprintf("%s failed: %v", f.Op, f.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", f.Op, f.ID, f.Err)
}

func (f *StoreFailure) Unwrap() error { return f.Err }

// Retryable is always true: no store failure leaves the model in a state
// that prevents re-issuing the same action.
func (f *StoreFailure) Retryable() bool { return true }
