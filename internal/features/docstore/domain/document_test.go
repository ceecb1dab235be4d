package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_FileName(t *testing.T) {
	assert.Equal(t, "chat.schema.json", KindSchema.FileName("chat"))
	assert.Equal(t, "chat.value.json", KindValues.FileName("chat"))
}

func TestKind_NotFoundMessage(t *testing.T) {
	assert.Equal(t, "Schema not found", KindSchema.NotFoundMessage())
	assert.Equal(t, "Values not found", KindValues.NotFoundMessage())
	assert.True(t, KindSchema.Valid())
	assert.False(t, Kind("other").Valid())
}
