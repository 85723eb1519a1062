package cli

import (
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/sobel"
	"github.com/gogpu/sobel/partition"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Rows        int
	Columns     int
	Workers     int
	Coordinator int
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the row partition for an image shape",
		Long: `Print the rows each worker owns and the sample offset and length used to
gather its band. The coordinator, marked with *, absorbs the remainder rows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Rows, "rows", 0, "image rows")
	cmd.Flags().IntVar(&opts.Columns, "columns", 0, "image columns")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "number of workers")
	cmd.Flags().IntVar(&opts.Coordinator, "coordinator", sobel.DefaultCoordinator, "coordinator rank (-1 for the last rank)")
	_ = cmd.MarkFlagRequired("rows")
	_ = cmd.MarkFlagRequired("columns")
	_ = cmd.MarkFlagRequired("workers")

	return cmd
}

func runPlan(cmd *cobra.Command, opts *PlanOptions) error {
	coordinator := opts.Coordinator
	if coordinator == sobel.DefaultCoordinator {
		coordinator = opts.Workers - 1
	}

	plan, err := partition.New(opts.Rows, opts.Columns, opts.Workers, coordinator)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	p.Fprintf(tw, "RANK\tROWS\tCOUNT\tOFFSET\tLENGTH\n")
	for rank, r := range plan.Ranges {
		mark := ""
		if rank == plan.Coordinator {
			mark = "*"
		}
		p.Fprintf(tw, "%d%s\t%v\t%d\t%d\t%d\n", rank, mark, r, r.Len(), plan.Offsets[rank], plan.Lengths[rank])
	}
	p.Fprintf(tw, "total\t\t%d\t\t%d\n", plan.TotalRows, plan.Total())

	return tw.Flush()
}
