package starcosctl

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"starcos/starcos"
)

var (
	genKeyKID    byte
	genKeyLength int
)

var genKeyCmd = &cobra.Command{
	Use:   "gen-key",
	Short: "generate an RSA key pair on-card and read back the public modulus",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		drv, rdr, err := connectDriver(log)
		if err != nil {
			return err
		}
		defer rdr.Close()

		data := starcos.GenerateKeyData{KeyID: genKeyKID, KeyLength: genKeyLength}
		result, err := drv.CardCtl(context.Background(), starcos.CardCtlGenerateKey{Data: data})
		if err != nil {
			return err
		}

		t := newKVTable("GENERATED KEY")
		t.AppendRow(table.Row{"KID", fmt.Sprintf("%02X", genKeyKID)})
		t.AppendRow(table.Row{"Modulus", hex.EncodeToString(result.Modulus)})
		t.Render()
		return nil
	},
}

func init() {
	genKeyCmd.Flags().Uint8Var(&genKeyKID, "kid", 0, "key reference in the ISF")
	genKeyCmd.Flags().IntVar(&genKeyLength, "bits", 1024, "modulus size in bits (512, 768, or 1024)")
}
