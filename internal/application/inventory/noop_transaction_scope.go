package inventory

import "context"

// NoOpTransactionScope runs fn directly against a fixed Repositories value
// with no actual transaction or schema switch, for exercising application
// services against in-memory fakes in tests.
type NoOpTransactionScope struct {
	Repos Repositories
}

// Execute implements TransactionScope.
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return fn(ctx, s.Repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
