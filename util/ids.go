package util

import (
	"github.com/rs/xid"
)

// GenRunID generates a pipeline run ID string.
// IDs are globally unique and sortable.
func GenRunID() string {
	id := xid.New()
	return id.String()
}
