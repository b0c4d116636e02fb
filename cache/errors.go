package cache

import "errors"

// ErrNotNumeric is returned by Increment when the existing value under the
// key is not a number. The key's state is left unchanged.
var ErrNotNumeric = errors.New("cache: value is not numeric")
