package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInfoNeverEmpty(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, Get())
	assert.NotEmpty(t, GetCommit())
	assert.NotEmpty(t, GetDate())
	assert.LessOrEqual(t, len(GetCommit()), 40)
}
