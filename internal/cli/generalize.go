package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/cartogen/pkg/io"
)

// generalizeCommand creates the generalize command.
func (c *CLI) generalizeCommand() *cobra.Command {
	var (
		flags  runFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "generalize <input.geojson>",
		Short: "Generalize a feature class for a target scale",
		Long: `Generalize reads a GeoJSON FeatureCollection, runs the pipeline of the
given feature class at the target scale and writes the result as GeoJSON.

Features that cannot be processed are reported and the rest of the file is
still generalized. The exit code is non-zero only when the run itself fails.`,
		Example: `  cartogen generalize lakes.geojson --class lakes --scale 50000
  cartogen generalize rivers.geojson -c watercourses -s 100000 -o rivers_100k.geojson
  cartogen generalize roads.geojson -c roads -t thresholds.toml --no-cache`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			coll, err := pkgio.ImportGeoJSON(input, flags.class)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(&flags)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			res, err := runner.Run(cmd.Context(), flags.class, coll, flags.scale)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Generalized %d %s", res.Stats.FeaturesIn, flags.class))

			if output == "" {
				output = defaultOutput(input, flags.class, flags.scale)
			}
			if err := pkgio.ExportGeoJSON(res.Collection, output); err != nil {
				return err
			}

			printSuccess("Generalized %s at 1:%s", StyleHighlight.Render(flags.class), formatScale(flags.scale))
			printFile(output)
			printRunStats(res)
			printProblems(res.Warnings, res.ItemErrors)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>_<class>_<scale>.geojson)")

	return cmd
}

// defaultOutput derives the output path from the input path.
func defaultOutput(input, class string, scale float64) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return fmt.Sprintf("%s_%s_%s.geojson", base, class, strings.ReplaceAll(formatScale(scale), " ", ""))
}

// formatScale formats a denominator with thin thousands separators, e.g.
// 50000 as "50 000".
func formatScale(scale float64) string {
	s := fmt.Sprintf("%.0f", scale)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
