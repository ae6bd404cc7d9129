package cmd

import (
	"context"
	"fmt"
	"net"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"loandash/internal/client"
	"loandash/internal/dashboard"
	"loandash/internal/logger"
	"loandash/internal/models"
	"loandash/internal/server"
	"loandash/internal/tui"
	"loandash/internal/viewport"
)

var (
	apiURL      string
	embedded    bool
	embedDriver string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the loan dashboard (same as default)",
	Long: `Start the terminal dashboard for loan applications.

By default the dashboard talks to the endpoint in api.url. With --embedded it
starts the endpoint in-process on a random local port instead.

Note: This is the same as running the program without any commands.`,
	RunE: runTUI,
}

func init() {
	addTUIFlags(tuiCmd)
}

func addTUIFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&apiURL, "api", "a", "", "Base URL of the loans endpoint (default from config)")
	cmd.Flags().BoolVarP(&embedded, "embedded", "e", false, "Serve loans in-process instead of calling --api")
	cmd.Flags().StringVar(&embedDriver, "store", "", "Store behind the embedded endpoint (default from config)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	baseURL := cfg.API.URL
	if apiURL != "" {
		baseURL = apiURL
	}

	serverErr := make(chan error, 1)
	if embedded {
		store, err := openStore(ctx, storeConfig(embedDriver))
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer store.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to start embedded server: %w", err)
		}
		srv := server.New(store, server.WithLatency(cfg.Server.Latency), server.WithLogger(logger.Log))
		go func() {
			serverErr <- srv.Serve(ctx, listener)
		}()
		baseURL = "http://" + listener.Addr().String()
		logger.Log.Infof("Embedded loans endpoint on %s", baseURL)
	}

	list := viewport.New[models.Loan](cfg.Dashboard.RowHeight, cfg.Dashboard.VisibleRows)
	ctrl := dashboard.New(
		client.New(baseURL, client.WithTimeout(cfg.API.Timeout)),
		dashboard.WithPageSize(cfg.Dashboard.PageSize),
		dashboard.WithDebounce(cfg.Dashboard.Debounce),
		dashboard.WithSink(list),
	)

	p := tea.NewProgram(
		tui.NewModel(ctrl, list, cfg.Dashboard.WheelStep),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if embedded {
		go func() {
			if err := <-serverErr; err != nil {
				p.Send(tui.ErrorMsg{Err: err})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
