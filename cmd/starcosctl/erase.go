package starcosctl

import (
	"context"

	"github.com/spf13/cobra"

	"starcos/starcos"
)

var confirmErase bool

var eraseCmd = &cobra.Command{
	Use:   "erase",
	Short: "restore the card's delivery state by deleting the MF (test cards only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmErase {
			printError("refusing to erase without --yes")
			return nil
		}

		log := newLogger()
		drv, rdr, err := connectDriver(log)
		if err != nil {
			return err
		}
		defer rdr.Close()

		if _, err := drv.CardCtl(context.Background(), starcos.CardCtlEraseCard{}); err != nil {
			return err
		}
		printSuccess("card erased")
		return nil
	},
}

func init() {
	eraseCmd.Flags().BoolVar(&confirmErase, "yes", false, "confirm the destructive erase")
}
