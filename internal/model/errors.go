package model

import "errors"

var (
	// ErrDuplicateAccount indicates the registration key is already taken.
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrInvalidCredentials indicates authentication failed. It deliberately
	// covers both an unknown key and a wrong secret so callers cannot probe
	// which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates no principal was attached to the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrOutOfStock indicates the item has no available units left.
	ErrOutOfStock = errors.New("item out of stock")
	// ErrTransactionConflict indicates a transient conflict between concurrent
	// transactions; the operation may be retried.
	ErrTransactionConflict = errors.New("transaction conflict")
	// ErrStoreUnavailable indicates the database rejected or aborted the
	// operation for a non-transient reason. The request fails; the process
	// stays up.
	ErrStoreUnavailable = errors.New("store unavailable")
)
