package main

import (
	"testing"

	"github.com/GoArmGo/SmokeLog/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd(logger.Discard())

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"server", "worker", "migrate"}, names)

	server, _, err := root.Find([]string{"server"})
	require.NoError(t, err)
	assert.NotNil(t, server.Flags().Lookup("skip-migrations"))
}

func TestMigrate_FailsWithoutConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Chdir(t.TempDir())

	root := newRootCmd(logger.Discard())
	root.SetArgs([]string{"migrate"})
	assert.Error(t, root.Execute())
}
