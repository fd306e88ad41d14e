package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const pqInvalidTextRepresentation = "22P02"

// trapLookupErr maps no-rows lookups to notFound. A malformed uuid in a path
// param reaches postgres as-is and surfaces as invalid_text_representation;
// that is a lookup miss too, not a server fault. Anything else is wrapped
// with msg.
func trapLookupErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqInvalidTextRepresentation {
		return notFound
	}
	return errors.Wrap(err, msg)
}
