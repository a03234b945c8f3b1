package service

import "context"

// TransactionManager runs a function inside a storage transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EmailPublisher queues enrollment-confirmation email events for asynchronous
// delivery. Publishing happens after the store writes; a failure here is
// logged, never surfaced to the caller.
type EmailPublisher interface {
	PublishEnrollmentEmail(ctx context.Context, userID, courseID, courseName string) error
}

// Locker serializes concurrent verifications of the same payment intent.
type Locker interface {
	// TryLock acquires the named lock and returns a release function, or
	// acquired=false when another verification currently holds it.
	TryLock(ctx context.Context, key string) (release func(), acquired bool, err error)
}
