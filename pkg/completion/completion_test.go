package completion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/luaufmt/pkg/completion"
	"github.com/yaklabco/luaufmt/pkg/modules"
)

const docURI = "file:///game/src/Client/HudController.lua"

func TestProvider_Knit(t *testing.T) {
	t.Parallel()

	reg := modules.NewRegistry(modules.KindKnit)
	reg.Add("PointsService", "/game/src/Server/PointsService.lua")
	reg.Add("CameraController", "/game/src/Client/CameraController.lua")

	result := completion.NewKnitProvider(reg, true).Complete(docURI)
	require.True(t, result.OK())
	require.Len(t, result.Items, 2)

	item := result.Items[0]
	assert.Equal(t, "CameraController", item.Label)
	assert.Equal(t, modules.KindKnit, item.Kind)
	assert.Equal(t, completion.CommandInsertKnitModule, item.Command.Name)
	assert.Equal(t, []string{"CameraController", docURI}, item.Command.Arguments)
}

func TestProvider_Wally(t *testing.T) {
	t.Parallel()

	reg := modules.NewRegistry(modules.KindWally)
	reg.Add("Promise", "/game/Packages/Promise.lua")

	result := completion.NewWallyProvider(reg, false).Complete(docURI)
	require.NoError(t, result.Err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, completion.CommandInsertWallyModule, result.Items[0].Command.Name)
	assert.Equal(t, "Insert Wally Module", result.Items[0].Command.Title)
}

func TestProvider_Failures(t *testing.T) {
	t.Parallel()

	var nilProvider *completion.Provider
	assert.ErrorIs(t, nilProvider.Complete(docURI).Err, completion.ErrNoRegistry)
	assert.ErrorIs(t, (&completion.Provider{}).Complete(docURI).Err, completion.ErrNoRegistry)

	reg := modules.NewRegistry(modules.KindKnit)
	reg.Add("PointsService", "PointsService.lua")

	result := completion.NewKnitProvider(reg, false).Complete(docURI)
	assert.ErrorIs(t, result.Err, completion.ErrNotKnitWorkspace)
	assert.Empty(t, result.Items)
	assert.False(t, result.OK())
}

func TestProvider_EmptyRegistry(t *testing.T) {
	t.Parallel()

	result := completion.NewWallyProvider(modules.NewRegistry(modules.KindWally), false).Complete(docURI)
	assert.True(t, result.OK())
	assert.Empty(t, result.Items)
}

func TestKindForCommand(t *testing.T) {
	t.Parallel()

	kind, err := completion.KindForCommand(completion.CommandInsertWallyModule)
	require.NoError(t, err)
	assert.Equal(t, modules.KindWally, kind)

	kind, err = completion.KindForCommand(completion.CommandInsertKnitModule)
	require.NoError(t, err)
	assert.Equal(t, modules.KindKnit, kind)

	_, err = completion.KindForCommand("luaufmt.unknown")
	assert.ErrorIs(t, err, completion.ErrUnknownCommand)
	assert.Len(t, completion.Commands(), 2)
}
