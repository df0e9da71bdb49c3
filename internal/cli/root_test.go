package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "recomb", cmd.Use)
	assert.Contains(t, cmd.Long, "recombination")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"solve", "run", "feedback", "apply", "validate", "show"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestSolveCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	solveCmd, _, err := cmd.Find([]string{"solve"})
	require.NoError(t, err)

	for _, name := range []string{"table", "seq", "k", "require", "forbid", "db"} {
		assert.NotNil(t, solveCmd.Flags().Lookup(name), "flag --%s should exist", name)
	}
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	iterFlag := runCmd.Flags().Lookup("max-iterations")
	require.NotNil(t, iterFlag)
	assert.Equal(t, "10", iterFlag.DefValue)
}

func TestFeedbackCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	feedbackCmd, _, err := cmd.Find([]string{"feedback"})
	require.NoError(t, err)

	assert.NotNil(t, feedbackCmd.Flags().Lookup("cert"))
	assert.NotNil(t, feedbackCmd.Flags().Lookup("error-region"))
}

func TestShowCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	showCmd, _, err := cmd.Find([]string{"show"})
	require.NoError(t, err)

	dbFlag := showCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
	assert.NotNil(t, showCmd.Flags().Lookup("run"))
}

func TestInvalidFormatRejected(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat(""))
}
