package starcosctl

import (
	"context"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "SELECT MF, dropping the card's current security state",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		drv, rdr, err := connectDriver(log)
		if err != nil {
			return err
		}
		defer rdr.Close()

		if err := drv.Logout(context.Background()); err != nil {
			return err
		}
		printSuccess("logged out")
		return nil
	},
}
