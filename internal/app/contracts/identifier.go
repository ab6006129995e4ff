package contracts

// IDGenerator abstracts the ambient random-id source so per-request
// correlation identifiers stay testable.
type IDGenerator interface {
	NewID() string
}
