package classify

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/winnow/internal/diag"
	"github.com/abelbrown/winnow/internal/logging"
	"github.com/abelbrown/winnow/internal/parse"
)

// RawCard carries the unparsed strings an extraction layer scrapes off a
// card. FromRaw turns it into an Item; extraction layers that already
// have typed values can build an Item directly.
type RawCard struct {
	ID            string
	Title         string
	ChannelName   string
	ViewCountText string
	PublishedText string
	DurationText  string
}

// FromRaw parses a RawCard's metric strings into an Item. Unparseable
// fields degrade to their unknown values (zero views, zero time, -1
// duration) and are reported as parse.error events; the pipeline treats
// the degraded values as missing rather than failing. events may be nil.
func FromRaw(raw RawCard, now time.Time, events *diag.Logger) Item {
	item := Item{
		ID:              raw.ID,
		Title:           raw.Title,
		ChannelName:     raw.ChannelName,
		ContentType:     ContentVideo,
		ViewCountRaw:    raw.ViewCountText,
		PublishedText:   raw.PublishedText,
		DurationSeconds: -1,
	}
	if raw.ViewCountText != "" {
		// Zero from digit-free text is a parse failure, not a zero count.
		if strings.ContainsAny(raw.ViewCountText, "0123456789") {
			item.ViewCount = parse.ViewCount(raw.ViewCountText)
		} else {
			reportParseFailure(events, raw.ID, "view_count", raw.ViewCountText)
		}
	}
	if raw.PublishedText != "" {
		if t, ok := parse.RelativeDate(raw.PublishedText, now); ok {
			item.Published = t
		} else {
			reportParseFailure(events, raw.ID, "published", raw.PublishedText)
		}
	}
	if raw.DurationText != "" {
		if d := parse.Duration(raw.DurationText); d > 0 {
			item.DurationSeconds = d
		} else {
			reportParseFailure(events, raw.ID, "duration", raw.DurationText)
		}
	}
	return item
}

func reportParseFailure(events *diag.Logger, itemID, field, text string) {
	logging.Debug("Unparseable card field", "item", itemID, "field", field, "text", text)
	if events == nil {
		return
	}
	events.Emit(diag.Event{
		Level: diag.LevelWarn,
		Kind:  diag.KindParseError,
		Comp:  "classify",
		Item:  itemID,
		Msg:   fmt.Sprintf("unparseable %s %q", field, text),
	})
}
