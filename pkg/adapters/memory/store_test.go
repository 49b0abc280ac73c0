package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/calform/pkg/adapters/memory"
	"github.com/aretw0/calform/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunKVStoreContract(t, store)
}

func TestSinkFactory_PublishesOnClose(t *testing.T) {
	f := memory.NewSinkFactory()
	s, err := f.Create(context.Background(), "out.gcode")
	require.NoError(t, err)

	_, err = s.Write([]byte("G28\n"))
	require.NoError(t, err)

	_, ok := f.Artifact("out.gcode")
	assert.False(t, ok, "nothing is visible before Close")

	require.NoError(t, s.Close())
	data, ok := f.Artifact("out.gcode")
	require.True(t, ok)
	assert.Equal(t, "G28\n", string(data))

	_, err = s.Write([]byte("late"))
	assert.Error(t, err)
}

func TestSinkFactory_AbortDiscards(t *testing.T) {
	f := memory.NewSinkFactory()
	s, err := f.Create(context.Background(), "a.gcode")
	require.NoError(t, err)

	_, _ = s.Write([]byte("partial"))
	require.NoError(t, s.Abort())
	require.NoError(t, s.Abort(), "Abort is idempotent")

	_, ok := f.Artifact("a.gcode")
	assert.False(t, ok)
	assert.Equal(t, []string{"a.gcode"}, f.Aborted())
}
