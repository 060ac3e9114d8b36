package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])

	serve, _, err := root.Find([]string{"serve"})
	assert.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("migrate"))
}

func TestMigrateRejectsMemoryDriver(t *testing.T) {
	t.Setenv("TRAVEL_PRIMARY.ENV", "local")
	t.Setenv("TRAVEL_SERVER.PORT", "8080")
	t.Setenv("TRAVEL_SERVER.CORS_ALLOWED_ORIGINS", "*")
	t.Setenv("TRAVEL_DATABASE.DRIVER", "memory")

	root := newRootCmd()
	root.SetArgs([]string{"migrate"})
	root.SilenceErrors = true

	assert.ErrorContains(t, root.Execute(), "requires database.driver=postgres")
}
