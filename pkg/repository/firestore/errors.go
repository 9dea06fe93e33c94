package firestore

import "github.com/Rajgohel2908/Memora/pkg/domain/interfaces"

// ErrNotFound is the backend-independent not-found sentinel
var ErrNotFound = interfaces.ErrNotFound
