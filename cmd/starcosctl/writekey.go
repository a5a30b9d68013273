package starcosctl

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"starcos/starcos"
)

var (
	writeKeyKID    byte
	writeKeyMode   byte
	writeKeyHex    string
	writeKeyHeader string
)

var writeKeyCmd = &cobra.Command{
	Use:   "write-key",
	Short: "install a key header and stream key material into the ISF",
	RunE: func(cmd *cobra.Command, args []string) error {
		var header [12]byte
		if writeKeyHeader != "" {
			raw, err := hex.DecodeString(writeKeyHeader)
			if err != nil {
				return fmt.Errorf("invalid --header hex: %w", err)
			}
			if len(raw) != 12 {
				return fmt.Errorf("--header must decode to exactly 12 bytes, got %d", len(raw))
			}
			copy(header[:], raw)
		}

		var key []byte
		if writeKeyHex != "" {
			raw, err := hex.DecodeString(writeKeyHex)
			if err != nil {
				return fmt.Errorf("invalid --key hex: %w", err)
			}
			key = raw
		}

		log := newLogger()
		drv, rdr, err := connectDriver(log)
		if err != nil {
			return err
		}
		defer rdr.Close()

		data := starcos.WriteKeyData{KeyHeader: header, KID: writeKeyKID, Mode: writeKeyMode, Key: key}
		if _, err := drv.CardCtl(context.Background(), starcos.CardCtlWriteKey{Data: data}); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("wrote %d key bytes to KID %02X", len(key), writeKeyKID))
		return nil
	},
}

func init() {
	writeKeyCmd.Flags().Uint8Var(&writeKeyKID, "kid", 0, "key reference in the ISF")
	writeKeyCmd.Flags().Uint8Var(&writeKeyMode, "mode", 0, "write mode (0 installs a fresh header)")
	writeKeyCmd.Flags().StringVar(&writeKeyHeader, "header", "", "12-byte key header, hex-encoded")
	writeKeyCmd.Flags().StringVar(&writeKeyHex, "key", "", "key material, hex-encoded")
}
