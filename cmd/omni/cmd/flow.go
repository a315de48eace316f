package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/omni-stack/omni/internal/render"
)

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Manage and run named command flows",
	Long: `A flow is a named, ordered list of command templates run as one chain.
Templates may contain $1..$N placeholders, replaced with the arguments
given to "flow run"; unmatched placeholders stay as literal text.`,
}

var flowListJSON bool

var flowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored flows",
	Args:  cobra.NoArgs,
	RunE:  runFlowList,
}

func init() {
	flowListCmd.Flags().BoolVar(&flowListJSON, "json", false, "emit flows as JSON")
	flowCmd.AddCommand(flowListCmd)
	rootCmd.AddCommand(flowCmd)
}

func runFlowList(cmd *cobra.Command, args []string) error {
	cfg, home, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openFlowStore(cfg, home)
	if err != nil {
		return err
	}
	flows, err := store.List()
	if err != nil {
		return err
	}
	return render.New(os.Stdout, flowListJSON).Flows(flows)
}
