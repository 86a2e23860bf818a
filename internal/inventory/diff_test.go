package inventory_test

import (
	"strings"
	"testing"

	"github.com/gruntwork-io/casper/internal/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wI2L/jsondiff"
)

func TestDiff(t *testing.T) {
	t.Parallel()

	previous := stateOf("aws_instance", []string{"i-0101522650aeaa2dd"})

	patch, err := inventory.Diff(previous, stateOf("aws_instance", []string{"i-0101522650aeaa2dd"}))
	require.NoError(t, err)
	assert.Empty(t, patch)

	patch, err = inventory.Diff(nil, previous)
	require.NoError(t, err)
	require.Len(t, patch, 1)
	assert.Equal(t, jsondiff.OperationAdd, patch[0].Type)
	assert.Equal(t, "/aws_instance", patch[0].Path)

	patch, err = inventory.Diff(previous, stateOf("aws_instance", []string{"i-0101522650aeaa2dd", "i-084699b83473e2c69"}))
	require.NoError(t, err)
	require.Len(t, patch, 1)
	assert.Equal(t, jsondiff.OperationAdd, patch[0].Type)
	assert.True(t, strings.HasPrefix(patch[0].Path, "/aws_instance/"), patch[0].Path)

	patch, err = inventory.Diff(previous, inventory.NewState())
	require.NoError(t, err)
	require.Len(t, patch, 1)
	assert.Equal(t, jsondiff.OperationRemove, patch[0].Type)
}
