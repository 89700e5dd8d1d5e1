package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cartogen/pkg/thresholds"
)

// thresholdsCommand creates the thresholds command.
func (c *CLI) thresholdsCommand() *cobra.Command {
	var (
		class string
		scale float64
		file  string
	)

	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Print the thresholds resolved for a class and scale",
		Long: `Thresholds resolves the threshold set a run would use: the smallest table
scale at or above the requested one, or the largest table scale beyond it.
Without --class it lists the classes and scales of the table.`,
		Example: `  cartogen thresholds --class roads --scale 100000
  cartogen thresholds -t thresholds.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(file)
			if err != nil {
				return err
			}
			if class == "" {
				printTable(table)
				return nil
			}
			set, err := table.Resolve(class, scale)
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render(fmt.Sprintf("%s at 1:%s", class, formatScale(scale))))
			for _, row := range setRows(set) {
				printKeyValue(row[0], row[1])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&class, "class", "c", "", "feature class")
	cmd.Flags().Float64VarP(&scale, "scale", "s", 50000, "target scale denominator")
	cmd.Flags().StringVarP(&file, "thresholds", "t", "", "TOML file overriding the default threshold table")

	return cmd
}

func printTable(t *thresholds.Table) {
	fmt.Println(StyleTitle.Render("Threshold table"))
	for _, d := range t.Denominators() {
		var classes []string
		for _, class := range t.Classes() {
			if _, ok := t.Get(d, class); ok {
				classes = append(classes, class)
			}
		}
		printKeyValue("1:"+formatScale(float64(d)), fmt.Sprint(classes))
	}
}

// setRows lists the parameters of s by their TOML names.
func setRows(s thresholds.Set) [][2]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }
	return [][2]string{
		{"snap_tolerance", f(s.SnapTolerance)},
		{"min_length", f(s.MinLength)},
		{"density_radius", f(s.DensityRadius)},
		{"max_local_count", strconv.Itoa(s.MaxLocalCount)},
		{"min_area", f(s.MinArea)},
		{"min_hole_area", f(s.MinHoleArea)},
		{"min_width", f(s.MinWidth)},
		{"exaggeration_distance", f(s.ExaggerationDistance)},
		{"buffer_distance", f(s.BufferDistance)},
		{"island_min_width", f(s.IslandMinWidth)},
		{"max_elongation", f(s.MaxElongation)},
		{"simplify_tolerance", f(s.SimplifyTolerance)},
		{"smooth_iterations", strconv.Itoa(s.SmoothIterations)},
	}
}
