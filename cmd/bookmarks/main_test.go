package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateCommand(t *testing.T) {
	t.Run("invalid direction", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetArgs([]string{"migrate", "sideways"})
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))

		assert.Error(t, cmd.ExecuteContext(context.Background()))
	})

	t.Run("missing config file", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetArgs([]string{"migrate", "up", "--config", filepath.Join(t.TempDir(), "missing.yml")})

		assert.Error(t, cmd.ExecuteContext(context.Background()))
	})

	t.Run("up on a file database", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(t.TempDir(), "bookmarks.db"))

		var out bytes.Buffer

		cmd := newRootCmd()
		cmd.SetArgs([]string{"migrate", "up", "--config", ""})
		cmd.SetOut(&out)

		assert.NoError(t, cmd.ExecuteContext(context.Background()))
		assert.Equal(t, "migrations up applied\n", out.String())
	})
}
