package cli

import (
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	pkgio "github.com/matzehuels/cartogen/pkg/io"
	"github.com/matzehuels/cartogen/pkg/pipeline"
)

// networkCommand creates the network command.
func (c *CLI) networkCommand() *cobra.Command {
	var (
		flags  runFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "network <input.geojson>",
		Short: "Write the classified line network as DOT or SVG",
		Long: `Network builds the graph of a line feature class and classifies it into
main, tributary and isolated edges without filtering anything. Main edges are
drawn thick and dark, tributaries thinner by branch order, isolated edges
dashed. Edges of components without a clear flow direction are drawn red.`,
		Example: `  cartogen network rivers.geojson -c watercourses | dot -Tpng > rivers.png
  cartogen network rivers.geojson -c watercourses --format svg -o rivers.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !pipeline.IsNetworkClass(flags.class) {
				return errs.New(errs.ErrCodeInvalidInput, "feature class %q is not a line network", flags.class)
			}
			coll, err := pkgio.ImportGeoJSON(args[0], flags.class)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(&flags)
			if err != nil {
				return err
			}
			defer runner.Close()

			data, cached, err := runner.RenderNetwork(cmd.Context(), flags.class, coll, flags.scale, format)
			if err != nil {
				return err
			}
			c.Logger.Debug("network rendered", "format", format, "bytes", len(data), "cached", cached)

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			printSuccess("Wrote %s network", StyleHighlight.Render(flags.class))
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format (dot, svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
