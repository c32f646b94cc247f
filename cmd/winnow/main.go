package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/winnow/internal/config"
	"github.com/abelbrown/winnow/internal/diag"
	"github.com/abelbrown/winnow/internal/engine"
	"github.com/abelbrown/winnow/internal/feedsim"
	"github.com/abelbrown/winnow/internal/logging"
	"github.com/abelbrown/winnow/internal/observe"
	"github.com/abelbrown/winnow/internal/present"
	"github.com/abelbrown/winnow/internal/store"
	"github.com/abelbrown/winnow/internal/ui"
)

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dataDir := logging.Dir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if err := logging.Init(); err != nil {
		log.Fatalf("Failed to init logging: %v", err)
	}
	defer logging.Close()

	cfg := config.Load()

	// Diagnostics: JSONL file plus in-memory ring for the debug overlay
	eventsFile, err := os.OpenFile(filepath.Join(dataDir, "events.jsonl"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("Failed to open events file: %v", err)
	}
	defer eventsFile.Close()
	events := diag.NewLogger(eventsFile)
	ring := diag.NewRing(diag.DefaultRingSize)
	events.SetRing(ring)
	defer events.Close()

	st, err := store.Open(filepath.Join(dataDir, "winnow.db"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	feed := feedsim.New(time.Now().UnixNano(), feedsim.Options{})
	surface := present.NewMemorySurface()

	eng := engine.New(cfg, st, feed, surface, events)
	eng.Start(ctx)
	defer eng.Close()

	// First page
	eng.PageReady(observe.Location{Path: "/"})

	loadRows := func() tea.Cmd {
		return func() tea.Msg {
			cards := feed.Snapshot()
			if limit := cfg.UI.ItemLimit; limit > 0 && len(cards) > limit {
				cards = cards[:limit]
			}
			rows := make([]ui.Row, 0, len(cards))
			for _, c := range cards {
				hidden, reason := surface.IsHidden(c.NodeID)
				count, err := st.Count(c.Item.ID)
				if err != nil {
					count = 0
				}
				rows = append(rows, ui.Row{
					NodeID:  c.NodeID,
					ItemID:  c.Item.ID,
					Title:   c.Item.Title,
					Channel: c.Item.ChannelName,
					Views:   c.Item.ViewCountRaw,
					Count:   count,
					Live:    c.Item.IsLive,
					Hidden:  hidden,
					Reason:  reason,
				})
			}
			return ui.RowsLoaded{
				Rows: rows,
				Page: feed.PageNum(),
				Subs: eng.Subscriptions().Len(),
			}
		}
	}

	navigate := func() tea.Cmd {
		return func() tea.Msg {
			eng.NavigationStart()
			feed.Navigate()
			eng.NavigationFinish(observe.Location{Path: "/"})
			return ui.NavigationDone{Page: feed.PageNum()}
		}
	}

	scanSubs := func() tea.Cmd {
		return func() tea.Msg {
			names := feed.Harvest()
			eng.SubscriptionScanComplete(names)
			return ui.ScanComplete{Count: eng.Subscriptions().Len()}
		}
	}

	churn := func() tea.Cmd {
		return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
			feed.Churn(3)
			return ui.ChurnTick{}
		})
	}

	app := ui.NewApp(loadRows, navigate, scanSubs, churn, ring).
		WithShowHidden(cfg.UI.ShowHidden)
	program := tea.NewProgram(app, tea.WithAltScreen())

	// Run UI (blocks until quit)
	if _, err := program.Run(); err != nil {
		log.Printf("Error running program: %v", err)
	}

	cancel()
	eng.Wait()
}
