package pace

import "github.com/xraph/pace/id"

// ID is the primary identifier type for all pace entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
