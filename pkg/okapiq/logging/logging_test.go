package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_ParsesKnownLevel(t *testing.T) {
	log := New("debug")
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())
}

func TestNew_UnrecognizedLevelDefaultsToInfo(t *testing.T) {
	log := New("not-a-level")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNew_EmptyLevelDefaultsToInfo(t *testing.T) {
	log := New("")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestComponent_AttachesComponentField(t *testing.T) {
	base := New("info")
	child := Component(base, "crawler")
	assert.Equal(t, base.GetLevel(), child.GetLevel())
}
