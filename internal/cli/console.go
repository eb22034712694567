package cli

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/snowclient/internal/app"
	"github.com/joacominatel/snowclient/internal/tui"
	"github.com/spf13/cobra"
)

func newConsoleCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Open the interactive query console",
		Long: `Open a full-screen console with a SQL editor and a results grid.

Without --profile the console starts with a picker listing the saved
profiles and the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stderr output would tear the alternate screen
			if !r.flags.verbose {
				r.logger = slog.New(slog.DiscardHandler)
			}
			service := app.NewService(r.clientOptions()...)
			defer func() { _ = service.Disconnect() }()

			autoConnect := r.flags.profile != "" || len(r.cfg.Profiles) == 0
			model := tui.NewModel(service, r.sources(), autoConnect)
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			_, err := p.Run()
			return err
		},
	}
}
