package starcosctl

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"starcos/internal/iso7816"
)

var selectCmd = &cobra.Command{
	Use:   "select <hex-fid-or-aid>",
	Short: "SELECT FILE by path, FID, or AID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid hex: %w", err)
		}

		log := newLogger()
		drv, rdr, err := connectDriver(log)
		if err != nil {
			return err
		}
		defer rdr.Close()

		kind := iso7816.PathKindPath
		if len(value) != 2 && len(value) != 6 {
			kind = iso7816.PathKindDFName
		}

		fd, err := drv.SelectFile(context.Background(), kind, value, true)
		if err != nil {
			return err
		}

		t := newKVTable("FILE DESCRIPTOR")
		t.AppendRow(table.Row{"FID", fmt.Sprintf("%04X", fd.FID)})
		t.AppendRow(table.Row{"Type", fileTypeString(fd.Type)})
		t.AppendRow(table.Row{"Structure", efStructureString(fd.EFStructure)})
		t.AppendRow(table.Row{"Size", fd.Size})
		t.AppendRow(table.Row{"Record length", fd.RecordLength})
		t.Render()
		return nil
	},
}

func fileTypeString(t iso7816.FileType) string {
	switch t {
	case iso7816.FileTypeMF:
		return "MF"
	case iso7816.FileTypeDF:
		return "DF"
	default:
		return "working EF"
	}
}

func efStructureString(s iso7816.EFStructure) string {
	switch s {
	case iso7816.EFStructureTransparent:
		return "transparent"
	case iso7816.EFStructureLinearFixed:
		return "linear-fixed"
	case iso7816.EFStructureCyclic:
		return "cyclic"
	default:
		return "unknown"
	}
}
