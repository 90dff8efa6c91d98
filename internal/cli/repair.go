package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/scenemend/scenemend/pkg/errors"
	"github.com/scenemend/scenemend/pkg/pipeline"
	"github.com/scenemend/scenemend/pkg/rewrite"
)

// repairCommand creates the repair command.
func (c *CLI) repairCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "repair [file ...]",
		Short: "Repair generated animation scripts",
		Long: `Repair runs the rewrite pipeline over one or more generated scripts.

With no arguments, reads from stdin and writes the repaired script to stdout.
With file arguments, each file is repaired and written next to the original
as <name>.repaired.py (or to --output for a single input).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" && len(args) > 1 {
				return fmt.Errorf("--output requires a single input file")
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("create runner: %w", err)
			}
			defer runner.Close()

			if len(args) == 0 {
				return c.repairStdin(cmd, runner, output, refresh)
			}
			return c.repairFiles(cmd, runner, args, output, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single input only; default stdout for stdin input)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and recompute")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")

	return cmd
}

// repairStdin repairs a script read from stdin.
func (c *CLI) repairStdin(cmd *cobra.Command, runner *pipeline.Runner, output string, refresh bool) error {
	source, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Source:  string(source),
		Refresh: refresh,
		Logger:  loggerFromContext(cmd.Context()),
	})
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Output)
		return nil
	}
	if err := writeRepaired(output, result.Output); err != nil {
		return err
	}
	printSuccess("Repaired stdin")
	printFile(output)
	printStats(result.Stats.LineCount, result.Status, result.CacheInfo.RepairHit)
	return nil
}

// repairFiles repairs each named file in sequence.
func (c *CLI) repairFiles(cmd *cobra.Command, runner *pipeline.Runner, files []string, output string, refresh bool) error {
	prog := newProgress(loggerFromContext(cmd.Context()))

	var failed int
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			if os.IsNotExist(err) {
				err = apperrors.New(apperrors.ErrCodeFileNotFound, "file not found")
			}
			printError("%s: %v", file, apperrors.UserMessage(err))
			failed++
			continue
		}

		spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Repairing %s", file))
		spinner.Start()

		result, err := runner.Execute(cmd.Context(), pipeline.Options{
			Source:  string(source),
			Refresh: refresh,
			Logger:  c.Logger,
		})
		if err != nil {
			spinner.StopWithError(fmt.Sprintf("%s: %v", file, err))
			failed++
			continue
		}

		target := output
		if target == "" {
			target = repairedPath(file)
		}
		if err := writeRepaired(target, result.Output); err != nil {
			spinner.StopWithError(fmt.Sprintf("%s: %v", file, err))
			failed++
			continue
		}

		spinner.StopWithSuccess(fmt.Sprintf("Repaired %s", file))
		if result.Status == rewrite.StatusPassedThrough {
			printWarning("%s still has syntax errors; output passed through unchanged", file)
		}
		printFile(target)
		printStats(result.Stats.LineCount, result.Status, result.CacheInfo.RepairHit)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	prog.done(fmt.Sprintf("Repaired %d file(s)", len(files)))
	return nil
}

// repairedPath derives the output path for an input file:
// scene.py becomes scene.repaired.py.
func repairedPath(file string) string {
	ext := filepath.Ext(file)
	return strings.TrimSuffix(file, ext) + ".repaired" + ext
}

// writeRepaired writes the repaired source with a trailing newline.
func writeRepaired(path, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// statusLabel maps a syntax verdict to the word shown in CLI output.
func statusLabel(status rewrite.Status) string {
	switch status {
	case rewrite.StatusValid:
		return "valid"
	case rewrite.StatusRepaired:
		return "heuristic repair"
	default:
		return "passed through"
	}
}
