package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

var errUnformatted = errors.New("files are not formatted")

// fmtOpts holds the command-line flags for the fmt command.
type fmtOpts struct {
	check  bool // report unformatted files without rewriting
	stdout bool // print the formatted document instead of rewriting
}

// fmtCommand creates the fmt command for canonicalizing scenario documents.
func (c *CLI) fmtCommand() *cobra.Command {
	var opts fmtOpts

	cmd := &cobra.Command{
		Use:   "fmt [scenario.yaml...]",
		Short: "Rewrite scenario documents in canonical YAML",
		Long: `Rewrite scenario documents in canonical YAML with two-space indentation
and a fixed field order. Files are rewritten in place unless --check or
--stdout is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFmt(args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.check, "check", false, "list unformatted files and fail if any")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "write the result to stdout")

	return cmd
}

func (c *CLI) runFmt(paths []string, opts fmtOpts) error {
	prog := newProgress(c.Logger)
	changed := 0

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		out, err := scenario.Format(data)
		if err != nil {
			return fmt.Errorf("format %s: %w", path, err)
		}

		if opts.stdout {
			stdout.Write(out)
			continue
		}
		if bytes.Equal(data, out) {
			continue
		}
		changed++
		if opts.check {
			printWarning("%s", path)
			continue
		}
		if err := writeFileAtomic(path, out); err != nil {
			return err
		}
		printFile(path)
	}

	switch {
	case opts.stdout:
		return nil
	case opts.check && changed > 0:
		return fmt.Errorf("%w: %d of %d", errUnformatted, changed, len(paths))
	}
	prog.done(fmt.Sprintf("Formatted %s, %d changed", plural(len(paths), "file"), changed))
	return nil
}

// writeFileAtomic replaces path through a temporary file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
