package starcosctl

import (
	"context"

	"github.com/spf13/cobra"

	"starcos/internal/iso7816"
	"starcos/starcos"
)

var (
	createFID  uint16
	createSize int
)

var createCmd = &cobra.Command{
	Use:   "create-mf",
	Short: "CREATE MF with the default ISF access conditions",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		drv, rdr, err := connectDriver(log)
		if err != nil {
			return err
		}
		defer rdr.Close()

		data := iso7816.MFData{
			Size: createSize,
			ACL:  map[iso7816.ACLOperation]iso7816.ACLEntry{},
		}
		if err := drv.CreateFile(context.Background(), data); err != nil {
			return err
		}
		printSuccess("MF created")
		return nil
	},
}

var createEndCmd = &cobra.Command{
	Use:   "create-end",
	Short: "CREATE END: activate the ACL of the DF/MF named by --fid",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		drv, rdr, err := connectDriver(log)
		if err != nil {
			return err
		}
		defer rdr.Close()

		if _, err := drv.CardCtl(context.Background(), starcos.CardCtlCreateEnd{FID: createFID}); err != nil {
			return err
		}
		printSuccess("create end activated")
		return nil
	},
}

func init() {
	createCmd.Flags().Uint16Var(&createFID, "fid", 0x3F00, "ignored: the CREATE MF header carries no FID")
	createCmd.Flags().IntVar(&createSize, "size", 0x2000, "MF size in bytes")
	createEndCmd.Flags().Uint16Var(&createFID, "fid", 0x3F00, "FID to activate")
	rootCmd.AddCommand(createEndCmd)
}
