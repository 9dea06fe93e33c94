package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned, wrapped, by every repository backend when the
// requested entity does not exist.
var ErrNotFound = goerr.New("not found")
