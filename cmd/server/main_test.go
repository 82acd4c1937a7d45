package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ward-rounds/internal/config"
)

func TestOneShotCommandsRefuseMemoryStore(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", ":memory:")

	for _, cmd := range []struct {
		name string
		run  func() error
	}{
		{"seed", func() error { c := seedCmd(); c.SetArgs([]string{}); return c.Execute() }},
		{"sweep", func() error { c := sweepCmd(); c.SetArgs([]string{}); return c.Execute() }},
	} {
		t.Run(cmd.name, func(t *testing.T) {
			err := cmd.run()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "in-memory")
		})
	}
}

func TestRequirePersistentStore(t *testing.T) {
	file := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", DSN: "rounds.db"}}
	assert.NoError(t, requirePersistentStore(file, "seed"))

	mysql := &config.Config{Database: config.DatabaseConfig{Driver: "mysql"}}
	assert.NoError(t, requirePersistentStore(mysql, "sweep"))

	memory := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", DSN: "file:rounds?mode=memory"}}
	assert.Error(t, requirePersistentStore(memory, "sweep"))
}
