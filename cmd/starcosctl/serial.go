package starcosctl

import (
	"context"
	"encoding/hex"

	"github.com/spf13/cobra"

	"starcos/starcos"
)

var serialCmd = &cobra.Command{
	Use:   "serial",
	Short: "read the card's serial number",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		drv, rdr, err := connectDriver(log)
		if err != nil {
			return err
		}
		defer rdr.Close()

		result, err := drv.CardCtl(context.Background(), starcos.CardCtlGetSerialNumber{})
		if err != nil {
			return err
		}
		printSuccess("serial number: " + hex.EncodeToString(result.Serial))
		return nil
	},
}
