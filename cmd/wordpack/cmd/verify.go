package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/wordpack/pkg/codec"
	"github.com/ssargent/wordpack/pkg/harness"
)

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <input>",
		Short: "Check that every layout decodes to the same lines",
		Long: `Encode the lines of <input> with every layout, decode each buffer and
compare the byte sum of every element against the source. Fails when any
layout disagrees.

Example:
  wordpack verify words.txt`,
		Args: cobra.ExactArgs(1),
		RunE: a.run(harness.ModeVerify, func(cmd *cobra.Command, r *harness.Runner, args []string) error {
			res, err := r.Verify(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range codec.Formats {
				fmt.Fprintf(out, "%-12s %d\n", f, res.Sums[f])
			}
			a.logger.Info("verified", "input", args[0], "lines", res.Lines)
			return nil
		}),
	}
}
