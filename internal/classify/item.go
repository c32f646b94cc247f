package classify

import "time"

// ContentType identifies what kind of card a feed item is.
type ContentType int

const (
	ContentUnknown ContentType = iota
	ContentVideo
	ContentPlaylist
	ContentChannel
	ContentMix
)

// String returns the content type name.
func (c ContentType) String() string {
	switch c {
	case ContentVideo:
		return "video"
	case ContentPlaylist:
		return "playlist"
	case ContentChannel:
		return "channel"
	case ContentMix:
		return "mix"
	default:
		return "unknown"
	}
}

// Item is the normalized descriptor for one observed feed card. It is
// produced by the extraction layer (a browser shim, or the simulator) and
// consumed by the pipeline; the pipeline never inspects raw markup.
//
// DurationSeconds is -1 when the card carried no duration. Published is
// the zero time when the relative-date text was absent or unparseable.
type Item struct {
	ID          string
	Title       string
	ChannelName string
	ContentType ContentType

	IsLive           bool
	HasWatchProgress bool

	ViewCountRaw string
	ViewCount    int64

	PublishedText string
	Published     time.Time

	DurationSeconds  int
	IsMusicException bool
}
