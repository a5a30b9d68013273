package starcosctl

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"starcos/internal/iso7816"
)

var (
	signKeyRefHex string
	signHash      string
	signDataHex   string
	signOutLen    int
)

var signCmd = &cobra.Command{
	Use:   "sign <hex-data>",
	Short: "install a signing security environment and sign the given data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid hex data: %w", err)
		}
		kref, err := hex.DecodeString(signKeyRefHex)
		if err != nil {
			return fmt.Errorf("invalid --kref hex: %w", err)
		}

		hashFlag, err := parseHashFlag(signHash)
		if err != nil {
			return err
		}

		log := newLogger()
		drv, rdr, err := connectDriver(log)
		if err != nil {
			return err
		}
		defer rdr.Close()

		env := iso7816.SecurityEnv{
			Operation:        iso7816.SecOpSign,
			AlgorithmFlags:   iso7816.AlgFlagRSAPad | hashFlag,
			KeyRef:           kref,
			KeyRefAsymmetric: true,
		}
		if err := drv.SetSecurityEnv(context.Background(), env); err != nil {
			return err
		}

		sig, err := drv.ComputeSignature(context.Background(), data, signOutLen)
		if err != nil {
			return err
		}

		fmt.Println(hex.EncodeToString(sig))
		return nil
	},
}

func parseHashFlag(name string) (iso7816.AlgorithmFlags, error) {
	switch name {
	case "", "none":
		return 0, nil
	case "sha1":
		return iso7816.AlgFlagHashSHA1, nil
	case "md5":
		return iso7816.AlgFlagHashMD5, nil
	case "ripemd160":
		return iso7816.AlgFlagHashRIPEMD160, nil
	default:
		return 0, fmt.Errorf("unknown hash %q (want none, sha1, md5, or ripemd160)", name)
	}
}

func init() {
	signCmd.Flags().StringVar(&signKeyRefHex, "kref", "", "key reference, hex-encoded")
	signCmd.Flags().StringVar(&signHash, "hash", "sha1", "hash algorithm: none, sha1, md5, ripemd160")
	signCmd.Flags().IntVar(&signOutLen, "out-len", 256, "maximum signature length to return")
}
