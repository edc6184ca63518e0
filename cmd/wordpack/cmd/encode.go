package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/wordpack/pkg/harness"
)

func newEncodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <input> <output>",
		Short: "Encode the lines of a text file",
		Long: `Encode every line of <input> into the selected layout and write the result
to <output>, replacing it if it exists.

Example:
  wordpack encode words.txt words.bin --format schema`,
		Args: cobra.ExactArgs(2),
		RunE: a.run(harness.ModeEncode, func(cmd *cobra.Command, r *harness.Runner, args []string) error {
			res, err := r.Encode(args[0], args[1])
			if err != nil {
				return err
			}
			a.logger.Info("encoded",
				"input", args[0],
				"output", args[1],
				"lines", res.Lines,
				"bytes", res.Bytes,
			)
			fmt.Fprintf(cmd.OutOrStdout(), "%d lines, %d bytes, xxhash %016x\n", res.Lines, res.Bytes, res.Digest)
			return nil
		}),
	}
}
