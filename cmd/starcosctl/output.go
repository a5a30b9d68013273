package starcosctl

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	colorLabel   = text.Colors{text.FgYellow}
	colorValue   = text.Colors{text.FgWhite}
	colorSuccess = text.Colors{text.FgGreen}
	colorError   = text.Colors{text.FgRed}
)

func tableStyle() table.Style {
	style := table.StyleRounded
	style.Color.Header = text.Colors{text.FgCyan, text.Bold}
	style.Options.SeparateRows = false
	return style
}

func newKVTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(tableStyle())
	t.SetTitle(title)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: colorLabel, WidthMin: 16},
		{Number: 2, Colors: colorValue, WidthMin: 40},
	})
	return t
}

func printSuccess(msg string) {
	fmt.Println(colorSuccess.Sprint(msg))
}

func printError(msg string) {
	fmt.Println(colorError.Sprint(msg))
}
