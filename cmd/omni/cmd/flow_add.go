package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omni-stack/omni/internal/types"
)

var flowAddCmd = &cobra.Command{
	Use:   "add <name> <command>...",
	Short: "Add commands to a flow, creating it if needed",
	Long: `Append one or more command templates to the named flow. The flow is
created when it does not exist yet. Templates are stored verbatim;
$1..$N placeholders are substituted at run time.

  omni flow add morning "cal today" "msg unread --channel $1"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runFlowAdd,
}

func init() {
	flowCmd.AddCommand(flowAddCmd)
}

func runFlowAdd(cmd *cobra.Command, args []string) error {
	cfg, home, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openFlowStore(cfg, home)
	if err != nil {
		return err
	}

	name := args[0]
	f, err := store.Get(name)
	if err != nil {
		f = &types.Flow{Name: name}
	}
	for _, raw := range args[1:] {
		f.Commands = append(f.Commands, types.CommandTemplate(raw))
	}
	if err := store.Save(f); err != nil {
		return err
	}

	fmt.Printf("flow %q now has %d command(s)\n", name, len(f.Commands))
	return nil
}
