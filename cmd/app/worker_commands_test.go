package main

import (
	"testing"

	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWorkers(t *testing.T) {
	id := kernel.MustUUIDFromString("6f1c2a9e-0d3b-4c1e-9a57-1b2c3d4e5f60")

	out := renderWorkers([]queries.WorkerResponse{{ID: id, Name: "Lia", Role: worker.Tailor, Active: false}})

	assert.Contains(t, out, id.String())
	assert.Contains(t, out, "Lia")
	assert.Contains(t, out, "tailor")
	assert.Contains(t, out, "false")
	assert.Equal(t, "No workers registered\n", renderWorkers(nil))
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCommand()

	for _, path := range [][]string{{"serve"}, {"migrate"}, {"worker", "add"}, {"worker", "list"}, {"worker", "deactivate"}} {
		found, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestWorkerAdd_RequiresKnownRole(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"--env-file", "", "worker", "add", "Lia", "--role", "presser"})

	err := root.Execute()

	require.Error(t, err)
}
