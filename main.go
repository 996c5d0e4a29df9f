package main

import (
	"fmt"
	"io"
	"os"

	"github.com/diffeo/go-test-diffeo/framework"
	"github.com/diffeo/go-test-diffeo/namespace"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Args[1:], os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(args []string, out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "difftest",
		Short:        "Namespaces and settings for diffeo integration tests",
		SilenceUsage: true,
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.AddCommand(
		newNamespaceCmd(),
		newEnvCmd(),
		newMarkersCmd(),
	)
	return rootCmd
}

func newNamespaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "namespace [label]",
		Short: "Prints the namespace string for a label in this process's environment",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			label := ""
			if len(args) > 0 {
				label = args[0]
			}
			fmt.Fprintln(cmd.OutOrStdout(), namespace.Generate(label))
		},
	}
}

func newEnvCmd() *cobra.Command {
	params := newEnvParams()
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Prints the resolved test settings as shell export lines",
		Long: "Resolves every external resource from switches and environment fallbacks, the same way the\n" +
			"test harness does, and prints them for eval in a shell.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), params.exports())
		},
	}
	cmd.Flags().AddGoFlagSet(params.flags)
	cmd.Flags().StringVar(&params.label, "label", "", "label for the namespace string")
	return cmd
}

func newMarkersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "markers",
		Short: "Lists the test category markers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			green := color.New(color.FgGreen).SprintFunc()
			for _, m := range framework.Markers() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (run with -%s)\n", green(m.Marker), m.Description, m.Flag)
			}
		},
	}
}
