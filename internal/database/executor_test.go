package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasLimitClause(t *testing.T) {
	assert.True(t, hasLimitClause("SELECT * FROM user LIMIT 1"))
	assert.True(t, hasLimitClause("select * from user limit 5"))
	assert.False(t, hasLimitClause("SELECT * FROM user"))
	assert.False(t, hasLimitClause("SELECT unlimited FROM user"))
}
