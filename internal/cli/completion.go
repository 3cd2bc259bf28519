package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// documentExts are offered when completing a document argument.
var documentExts = []string{"puml", "plantuml", "pu", "iuml", "wsd", "txt", "md"}

// registerCompletions attaches argument and flag completion to the
// subcommands of root. The completion command itself is cobra's default.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		if takesDocument(cmd) {
			cmd.ValidArgsFunction = completeDocument
		}
		if cmd.Flags().Lookup("positions") != nil {
			_ = cmd.RegisterFlagCompletionFunc("positions", completeLayoutFile)
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", completeFormat)
		}
	}
}

// takesDocument reports whether cmd's first argument is a PlantUML document.
func takesDocument(cmd *cobra.Command) bool {
	return strings.Contains(cmd.Use, "[file.puml")
}

func completeDocument(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return documentExts, cobra.ShellCompDirectiveFilterFileExt
}

func completeLayoutFile(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

func completeFormat(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"svg\tvector image", "png\traster image"}, cobra.ShellCompDirectiveNoFileComp
}
