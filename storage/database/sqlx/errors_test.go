package sqlxrepos

import (
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core/course"
)

func Test_trapLookupErr(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		err := trapLookupErr(sql.ErrNoRows, course.ErrNotFound, "getting course")
		assert.Equal(t, course.ErrNotFound, err)
	})

	t.Run("malformed uuid", func(t *testing.T) {
		pqErr := &pq.Error{Code: pqInvalidTextRepresentation}
		err := trapLookupErr(pqErr, course.ErrNotFound, "getting course")
		assert.Equal(t, course.ErrNotFound, err)
	})

	t.Run("other pq errors wrapped", func(t *testing.T) {
		pqErr := &pq.Error{Code: pqUniqueViolation}
		err := trapLookupErr(pqErr, course.ErrNotFound, "getting course")
		assert.NotEqual(t, course.ErrNotFound, err)
		assert.Equal(t, pqErr, errors.Cause(err))
	})

	t.Run("other errors wrapped", func(t *testing.T) {
		err := trapLookupErr(errors.New("boom"), course.ErrNotFound, "getting course")
		assert.EqualError(t, err, "getting course: boom")
	})
}
