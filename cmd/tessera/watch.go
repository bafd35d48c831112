package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tessera/internal/canvas"
	"tessera/internal/canvas/session"
	"tessera/internal/collab"
	"tessera/internal/config"
	"tessera/internal/elementtypes"
	models "tessera/internal/domain/models/canvas"
)

type watchOptions struct {
	server    string
	token     string
	workspace string
	element   string
	width     float64
	height    float64
	interval  time.Duration
}

func newWatchCmd() *cobra.Command {
	opts := watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a workspace live and report what the canvas shows",
		Long: `watch opens a canvas session against a running server, applies
collaborators' changes as they arrive and periodically prints the viewport
and the number of rendered elements.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.server, "server", "http://localhost:8080", "server base URL")
	cmd.Flags().StringVar(&opts.token, "token", os.Getenv("TESSERA_TOKEN"), "bearer token")
	cmd.Flags().StringVar(&opts.workspace, "workspace", "", "workspace ID")
	cmd.Flags().StringVar(&opts.element, "element", "", "element to zoom to once loaded")
	cmd.Flags().Float64Var(&opts.width, "width", 1440, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", 900, "viewport height")
	cmd.Flags().DurationVar(&opts.interval, "interval", 5*time.Second, "report interval")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

// feedCursor lets the session be built before the feed it reports to exists
type feedCursor struct {
	feed atomic.Pointer[collab.Feed]
}

func (c *feedCursor) UpdateCursor(ctx context.Context, x, y float64) error {
	f := c.feed.Load()
	if f == nil {
		return nil
	}
	return f.UpdateCursor(ctx, x, y)
}

type logNotifier struct {
	out func(format string, args ...interface{})
}

func (n logNotifier) Notify(message string, err error) {
	n.out("%s: %v\n", message, err)
}

func runWatch(cmd *cobra.Command, opts watchOptions) error {
	cfg := loadConfig()
	logger := config.NewLogger(os.Stderr, cfg.Debug)
	printf := func(format string, args ...interface{}) {
		fmt.Fprintf(cmd.OutOrStdout(), format, args...)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := canvas.LoadSettings(cfg.CanvasSettingsPath)
	if err != nil {
		return err
	}
	registry, err := elementtypes.NewRegistry()
	if err != nil {
		return err
	}
	client, err := collab.NewClient(collab.Config{
		BaseURL: opts.server,
		Token:   opts.token,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	elements, err := client.ListElements(ctx, opts.workspace)
	if err != nil {
		return fmt.Errorf("load workspace: %w", err)
	}

	cursor := &feedCursor{}
	wrapperFloor := models.Dimensions{Width: settings.WrapperMinWidth, Height: settings.WrapperMinHeight}
	sess := session.New(session.Options{
		WorkspaceID: opts.workspace,
		Settings:    settings,
		API:         client,
		Cursor:      cursor,
		Notifier:    logNotifier{out: printf},
		MinSize: func(t models.ElementType) models.Dimensions {
			return registry.MinSize(t, wrapperFloor)
		},
		Resizable:    registry.Resizable,
		EditableText: registry.EditableText,
		Logger:       logger,
	})

	loopDone := make(chan error, 1)
	go func() { loopDone <- sess.Run(ctx) }()

	if err := sess.Resize(opts.width, opts.height); err != nil {
		return err
	}
	if err := sess.Load(elements); err != nil {
		return err
	}
	if opts.element != "" {
		if err := sess.DeepLink(opts.element); err != nil {
			return err
		}
	}

	feed, err := client.Dial(ctx, opts.workspace, sess, func(senderID string, c models.CursorPayload) {
		printf("cursor %s (%s) at %.0f,%.0f\n", c.UserID, senderID, c.X, c.Y)
	})
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	defer feed.Close()
	cursor.feed.Store(feed)

	printf("watching workspace %s as client %s (%d elements)\n", opts.workspace, client.ClientID(), len(elements))

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			view, err := sess.View()
			if err != nil {
				return err
			}
			printf("viewport %.0f,%.0f x%.3f | rendering %d of %d",
				view.Viewport.X, view.Viewport.Y, view.Viewport.Scale, len(view.Elements), view.Total)
			if view.Highlighted != "" {
				printf(" | highlighted %s", view.Highlighted)
			}
			printf("\n")
		case <-feed.Done():
			stop()
			<-loopDone
			if err := feed.Err(); err != nil {
				return fmt.Errorf("feed closed: %w", err)
			}
			return nil
		case err := <-loopDone:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}
