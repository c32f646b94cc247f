package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/abelbrown/winnow/internal/classify"
	"github.com/abelbrown/winnow/internal/config"
	"github.com/abelbrown/winnow/internal/diag"
	"github.com/abelbrown/winnow/internal/parse"
	"github.com/abelbrown/winnow/internal/store"
	"github.com/abelbrown/winnow/internal/subs"
)

// cardDescriptor is the JSON shape accepted by `wn classify`: the raw
// strings an extraction layer would scrape, before parsing.
type cardDescriptor struct {
	ID        string `json:"id"`
	URL       string `json:"url,omitempty"` // watch or /live/ href; used when id is empty
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Type      string `json:"type"` // video, playlist, channel, mix
	Live      bool   `json:"live"`
	Watched   bool   `json:"watched"`
	Views     string `json:"views"`     // e.g. "1.2M views"
	Published string `json:"published"` // e.g. "3 weeks ago"
	Duration  string `json:"duration"`  // e.g. "12:34"
	Music     bool   `json:"music"`
}

func contentType(s string) classify.ContentType {
	switch s {
	case "video", "":
		return classify.ContentVideo
	case "playlist":
		return classify.ContentPlaylist
	case "channel":
		return classify.ContentChannel
	case "mix":
		return classify.ContentMix
	default:
		return classify.ContentUnknown
	}
}

func runClassify() {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	useDB := fs.Bool("db", false, "Use the real database (counts and increments against it)")
	asJSON := fs.Bool("json", false, "Output the decision as JSON")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: wn classify [--db] [--json] <descriptor.json>")
		os.Exit(1)
	}

	raw, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var desc cardDescriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		fmt.Fprintf(os.Stderr, "error: bad descriptor: %v\n", err)
		os.Exit(1)
	}

	var st *store.Store
	if *useDB {
		st = openDB()
	} else {
		st, err = store.Open(":memory:")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	defer st.Close()

	if desc.ID == "" && desc.URL != "" {
		desc.ID = parse.VideoID(parse.WatchURL(desc.URL))
	}

	var events *diag.Logger
	if lf, err := os.OpenFile(eventLogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		events = diag.NewLogger(lf)
		defer func() {
			events.Close()
			lf.Close()
		}()
	}

	item := classify.FromRaw(classify.RawCard{
		ID:            desc.ID,
		Title:         desc.Title,
		ChannelName:   desc.Channel,
		ViewCountText: desc.Views,
		PublishedText: desc.Published,
		DurationText:  desc.Duration,
	}, time.Now(), events)
	item.ContentType = contentType(desc.Type)
	item.IsLive = desc.Live
	item.HasWatchProgress = desc.Watched
	item.IsMusicException = desc.Music

	cfg := config.Load()
	set := subs.Load(st)

	pipeline := classify.New(cfg.ClassifyOptions(), set, st, events, nil)
	d := pipeline.Classify(item)

	if *asJSON {
		out, _ := json.MarshalIndent(struct {
			Show    bool   `json:"show"`
			Reason  string `json:"reason"`
			Settled bool   `json:"settled"`
			Count   int64  `json:"count"`
		}{d.Show, d.Reason.String(), d.Settled, d.Count}, "", "  ")
		fmt.Println(string(out))
		return
	}

	verdict := "SHOW"
	if d.Hidden() {
		verdict = "HIDE"
	}
	fmt.Printf("%s  reason=%s settled=%v count=%d\n", verdict, d.Reason, d.Settled, d.Count)
}
