package cmd

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ssargent/wordpack/pkg/codec"
	"github.com/ssargent/wordpack/pkg/harness"
)

func newDecodeNthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode-nth <input> <n>",
		Short: "Checksum one element of an encoded file",
		Long: `Map <input>, decode it and print the byte sum of element <n> (zero-based).
Only element <n> is resolved for the schema layout.

Example:
  wordpack decode-nth words.bin 10000`,
		Args: cobra.ExactArgs(2),
		RunE: a.run(harness.ModeDecodeNth, func(cmd *cobra.Command, r *harness.Runner, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrapf(codec.ErrIndexOutOfRange, "invalid index %q", args[1])
			}
			sum, err := r.DecodeNth(args[0], n)
			if err != nil {
				return err
			}
			a.logger.Debug("decoded element", "input", args[0], "index", n, "sum", sum)
			fmt.Fprintln(cmd.OutOrStdout(), sum)
			return nil
		}),
	}
}

func newDecodeAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode-all <input>",
		Short: "Checksum every element of an encoded file",
		Long: `Map <input>, decode it and print the wrapping sum of the byte sums of every
element.

Example:
  wordpack decode-all words.bin`,
		Args: cobra.ExactArgs(1),
		RunE: a.run(harness.ModeDecodeAll, func(cmd *cobra.Command, r *harness.Runner, args []string) error {
			sum, err := r.DecodeAll(args[0])
			if err != nil {
				return err
			}
			a.logger.Debug("decoded all elements", "input", args[0], "sum", sum)
			fmt.Fprintln(cmd.OutOrStdout(), sum)
			return nil
		}),
	}
}
