package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/omni-stack/omni/internal/cli"
)

var flowRemoveForce bool

var flowRemoveCmd = &cobra.Command{
	Use:   "remove <name> [index]",
	Short: "Remove a flow, or one command from it",
	Long: `Without an index the whole flow is deleted (after confirmation).
With a 1-based index only that command is removed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFlowRemove,
}

func init() {
	flowRemoveCmd.Flags().BoolVarP(&flowRemoveForce, "force", "f", false, "delete without confirmation")
	flowCmd.AddCommand(flowRemoveCmd)
}

func runFlowRemove(cmd *cobra.Command, args []string) error {
	cfg, home, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openFlowStore(cfg, home)
	if err != nil {
		return err
	}

	name := args[0]
	if len(args) == 1 {
		if !flowRemoveForce {
			ok, err := cli.Confirm(os.Stdout, os.Stdin, fmt.Sprintf("Delete flow %q?", name), false)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		if err := store.Delete(name); err != nil {
			return err
		}
		fmt.Printf("deleted flow %q\n", name)
		return nil
	}

	index, err := strconv.Atoi(args[1])
	if err != nil || index < 1 {
		return fmt.Errorf("index must be a positive number, got %q", args[1])
	}

	f, err := store.Get(name)
	if err != nil {
		return err
	}
	if index > len(f.Commands) {
		return fmt.Errorf("flow %q has only %d command(s)", name, len(f.Commands))
	}

	f.Commands = append(f.Commands[:index-1], f.Commands[index:]...)
	if len(f.Commands) == 0 {
		if err := store.Delete(name); err != nil {
			return err
		}
		fmt.Printf("deleted flow %q (no commands left)\n", name)
		return nil
	}
	if err := store.Save(f); err != nil {
		return err
	}
	fmt.Printf("flow %q now has %d command(s)\n", name, len(f.Commands))
	return nil
}
