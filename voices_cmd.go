package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dgnsrekt/memegen/internal/speech"
	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:     "voices",
	Short:   "List the voices of the speech engine",
	Long:    paragraph(fmt.Sprintf("\n%s the voices the selected speech engine offers. Pass a name to --voice to use it.", keyword("List"))),
	Example: paragraph("memegen voices\nmemegen voices --tts gtts"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		backend, err := newBackend(ttsEngine)
		if err != nil {
			return err
		}
		defer func() { _ = backend.Close() }()

		voices := backend.Voices()
		if len(voices) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No voices found for", keyword(ttsEngine))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), voicesTable(voices))
		return nil
	},
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func voicesTable(voices []speech.Voice) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("NAME", "LANG", "LANGUAGE", "DEFAULT").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	for _, v := range voices {
		def := ""
		if v.Default {
			def = "yes"
		}
		t.Row(v.Name, v.Lang, v.LangName(), def)
	}
	return t.String()
}
