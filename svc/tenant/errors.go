package tenant

import "errors"

// ErrInvalidIdentifier is returned by a Resolver when the raw tenant-id
// component it extracted fails format validation.
var ErrInvalidIdentifier = errors.New("tenant: invalid identifier")
