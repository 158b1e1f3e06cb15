package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		level     string
		wantInfo  bool
		wantDebug bool
	}{
		{"default shows info", false, "", true, false},
		{"warn hides info", false, "warn", false, false},
		{"info", false, "info", true, false},
		{"debug level", false, "DEBUG", true, true},
		{"debug flag wins", true, "error", true, true},
		{"unknown keeps default", false, "loud", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := newLogger(&buf, tt.debug, tt.level)
			log.Info("info line")
			log.Debug("debug line")

			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info line")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.NotContains(t, buf.String(), "time=")
		})
	}
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/workspace.go", shortPath("/home/dev/src/govlock/internal/usecase/workspace.go"))
	assert.Equal(t, "main.go", shortPath("/tmp/build/main.go"))
}
