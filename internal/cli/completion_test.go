package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRootCmd creates a bare root command so generation tests don't
// depend on what is registered on rootCmd.
func newTestRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sysinsight",
		Short: "Live CPU, memory and disk dashboard for your terminal",
	}
}

func TestCompletionGeneration(t *testing.T) {
	tests := []struct {
		shell string
		gen   func(*cobra.Command, *bytes.Buffer) error
		want  []string
	}{
		{
			shell: "bash",
			gen:   func(c *cobra.Command, b *bytes.Buffer) error { return c.GenBashCompletion(b) },
			want:  []string{"# bash completion for sysinsight", "__sysinsight_debug", "complete -o default -F __start_sysinsight sysinsight"},
		},
		{
			shell: "zsh",
			gen:   func(c *cobra.Command, b *bytes.Buffer) error { return c.GenZshCompletion(b) },
			want:  []string{"#compdef sysinsight", "_sysinsight()"},
		},
		{
			shell: "fish",
			gen:   func(c *cobra.Command, b *bytes.Buffer) error { return c.GenFishCompletion(b, true) },
			want:  []string{"fish completion for sysinsight", "complete -c sysinsight"},
		},
		{
			shell: "powershell",
			gen:   func(c *cobra.Command, b *bytes.Buffer) error { return c.GenPowerShellCompletion(b) },
			want:  []string{"Register-ArgumentCompleter"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.gen(newTestRootCmd(), &buf))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestCompletionIncludesBuiltinCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, rootCmd.GenBashCompletion(&buf))
	output := buf.String()

	assert.Contains(t, output, "__completeNoDesc", "should use dynamic completion")
	assert.Contains(t, output, "__start_sysinsight")
	assert.Contains(t, output, "_sysinsight_root_command")

	// Commands with local flags get their own functions.
	assert.Contains(t, output, "_sysinsight_dashboard()")
	assert.Contains(t, output, "_sysinsight_serve()")
	assert.Contains(t, output, "_sysinsight_init()")
	assert.Contains(t, output, "_sysinsight_completion()")
}

func TestCompletionBashSyntaxValid(t *testing.T) {
	cmd := newTestRootCmd()
	cmd.AddCommand(&cobra.Command{Use: "dashboard", Short: "Dashboard"})
	cmd.AddCommand(&cobra.Command{Use: "serve", Short: "Serve"})

	var buf bytes.Buffer
	require.NoError(t, cmd.GenBashCompletion(&buf))
	output := buf.String()

	assert.Equal(t, strings.Count(output, "{"), strings.Count(output, "}"), "braces should be balanced")
	assert.Contains(t, output, "__start_sysinsight()")
}

func TestCompletionCommandValidArgs(t *testing.T) {
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, completionCmd.ValidArgs)
}
