package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/inspector/internal/scene"
)

func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate a shell completion script. Type arguments complete to the
catalog type names.

  $ source <(inspector completion bash)
  $ inspector completion zsh > "${fpath[1]}/_inspector"
  $ inspector completion fish | source
  PS> inspector completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeTypes completes the first argument to a catalog type name and,
// for commands taking a field, the second to one of its fields
func completeTypes(withField bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		switch {
		case len(args) == 0:
			return matching(scene.Names(), toComplete), cobra.ShellCompDirectiveNoFileComp
		case len(args) == 1 && withField:
			if inst, err := scene.New(args[0]); err == nil {
				return matching(inst.Describe().FieldNames(), toComplete), cobra.ShellCompDirectiveNoFileComp
			}
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func matching(candidates []string, prefix string) []string {
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}
