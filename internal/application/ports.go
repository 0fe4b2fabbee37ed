package application

import "context"

// PasswordHasher produces and verifies opaque credential hashes. Verify
// reports false on mismatch instead of erroring; NeedsRehash reports whether
// the stored hash uses an outdated cost parameter and should be upgraded at
// the next successful login.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
	NeedsRehash(hash string) bool
}

// JobPublisher hands a JSON-encodable job to the outbound queue. Implemented
// by the RabbitMQ publisher; faked in tests.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
