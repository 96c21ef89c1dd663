package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJobActorFlagBinding(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := createJobCmd()

	flag := cmd.Flags().Lookup("actor")
	require.NotNil(t, flag, "create command must expose --actor")

	require.NoError(t, cmd.Flags().Set("actor", "counter-one"))
	assert.Equal(t, "counter-one", viper.GetString("actor"))
}
