// Package feedsim generates a synthetic card feed for the simulator TUI
// and for exercising the engine without a host page.
//
// The generator is fully deterministic for a given seed: the same seed
// produces the same catalog, the same page sequence, and the same churn.
// Video IDs come from a fixed catalog so the same logical videos recur
// across simulated navigations, which is what makes view counting and
// threshold hiding observable in the simulator.
package feedsim

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/abelbrown/winnow/internal/classify"
	"github.com/abelbrown/winnow/internal/observe"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"

var titleSubjects = []string{
	"Building a Mechanical Keyboard",
	"The History of the Transistor",
	"Restoring a 1974 Land Cruiser",
	"Sourdough From Scratch",
	"Why Bridges Fail",
	"Inside a Nuclear Power Plant",
	"Lofi Beats to Study To",
	"Speedrunning the Water Temple",
	"How Container Ships Work",
	"A Week in Rural Japan",
	"The Math Behind Compression",
	"Cast Iron Myths Debunked",
	"Every Opening Explained",
	"Woodworking Without Power Tools",
	"The Fall of a Retail Empire",
	"Urban Sketching in the Rain",
	"What Happened to Supersonic Flight",
	"Fermentation for Beginners",
	"Reading the Voynich Manuscript",
	"Climbing Without Ropes",
}

var channelNames = []string{
	"Workshop Diaries",
	"Atlas Obscura Files",
	"The Signal Path",
	"Practical Engineering Hour",
	"Midnight Kitchen",
	"Café Molinari",
	"Forgotten Machines",
	"Slow TV Japan",
	"The Paper Trail",
	"Benchtop Chemistry",
	"Field Notes Audio",
	"Vector Garage",
	"Long Haul Stories",
	"The Quiet Archive",
	"Third Rail Transit",
	"Harbor Lights Music",
}

// catalogEntry is one logical video in the fixed catalog.
type catalogEntry struct {
	id       string
	title    string
	channel  string
	views    int64
	ageText  string
	duration int
	live     bool
	music    bool
}

// Feed is a deterministic synthetic mutation feed. It implements
// observe.Feed. Subscribers are invoked without the feed's lock held.
type Feed struct {
	mu       sync.Mutex
	rng      *rand.Rand
	catalog  []catalogEntry
	page     []observe.Candidate
	pageSize int
	subs     map[int]func(observe.Candidate)
	nextSub  int
	pageNum  int
}

// Options controls generation. Zero values get sensible defaults.
type Options struct {
	// CatalogSize is the number of distinct videos in the pool.
	CatalogSize int

	// PageSize is the number of cards per generated page.
	PageSize int
}

// New builds a Feed with a fixed catalog derived from seed.
func New(seed int64, opts Options) *Feed {
	if opts.CatalogSize <= 0 {
		opts.CatalogSize = 120
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 24
	}

	rng := rand.New(rand.NewSource(seed))
	f := &Feed{
		rng:  rng,
		subs: make(map[int]func(observe.Candidate)),
	}

	f.catalog = make([]catalogEntry, opts.CatalogSize)
	for i := range f.catalog {
		channel := channelNames[rng.Intn(len(channelNames))]
		f.catalog[i] = catalogEntry{
			id:       randomID(rng),
			title:    fmt.Sprintf("%s — Part %d", titleSubjects[rng.Intn(len(titleSubjects))], rng.Intn(9)+1),
			channel:  channel,
			views:    viewCount(rng),
			ageText:  ageText(rng),
			duration: rng.Intn(3600) + 60,
			live:     rng.Intn(20) == 0,
			music:    channel == "Harbor Lights Music",
		}
	}

	f.pageSize = opts.PageSize
	f.Navigate()
	return f
}

// Navigate regenerates the page by sampling the catalog, simulating a
// navigation to a fresh feed surface. Existing node IDs are discarded.
func (f *Feed) Navigate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageNum++

	f.page = f.page[:0]
	seen := make(map[int]bool)
	for len(f.page) < f.pageSize && len(seen) < len(f.catalog) {
		ci := f.rng.Intn(len(f.catalog))
		if seen[ci] {
			continue
		}
		seen[ci] = true
		f.page = append(f.page, f.cardLocked(ci, len(f.page)))
	}
}

func (f *Feed) cardLocked(ci, slot int) observe.Candidate {
	e := f.catalog[ci]
	item := classify.Item{
		ID:               e.id,
		Title:            e.title,
		ChannelName:      e.channel,
		ContentType:      classify.ContentVideo,
		IsLive:           e.live,
		ViewCountRaw:     viewString(e.views),
		ViewCount:        e.views,
		PublishedText:    e.ageText,
		DurationSeconds:  e.duration,
		IsMusicException: e.music,
	}
	// A slice of cards are structural noise the classifier must reject.
	switch f.rng.Intn(24) {
	case 0:
		item.ContentType = classify.ContentPlaylist
	case 1:
		item.ContentType = classify.ContentMix
	case 2:
		item.HasWatchProgress = true
	}
	return observe.Candidate{
		NodeID: fmt.Sprintf("p%d-card-%02d", f.pageNum, slot),
		Item:   item,
	}
}

// Snapshot implements observe.Feed.
func (f *Feed) Snapshot() []observe.Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]observe.Candidate(nil), f.page...)
}

// Subscribe implements observe.Feed. The callback is never invoked while
// the feed's lock is held, and never synchronously from Subscribe.
func (f *Feed) Subscribe(fn func(observe.Candidate)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

// Card returns the current page card occupying nodeID.
func (f *Feed) Card(nodeID string) (observe.Candidate, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.page {
		if c.NodeID == nodeID {
			return c, true
		}
	}
	return observe.Candidate{}, false
}

// Churn mutates up to n random cards on the current page and notifies
// subscribers, simulating late hydration: live streams end, view counts
// tick up. Returns the number of cards mutated.
func (f *Feed) Churn(n int) int {
	f.mu.Lock()
	mutated := make([]observe.Candidate, 0, n)
	for i := 0; i < n && len(f.page) > 0; i++ {
		slot := f.rng.Intn(len(f.page))
		c := &f.page[slot]
		if c.Item.IsLive {
			c.Item.IsLive = false
		} else {
			c.Item.ViewCount += int64(f.rng.Intn(900) + 100)
			c.Item.ViewCountRaw = viewString(c.Item.ViewCount)
		}
		mutated = append(mutated, *c)
	}
	fns := make([]func(observe.Candidate), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, c := range mutated {
		for _, fn := range fns {
			fn(c)
		}
	}
	return len(mutated)
}

// PageNum returns the current simulated page number, starting at 1.
func (f *Feed) PageNum() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pageNum
}

// Harvest simulates a subscription scan, returning a deterministic
// subset of the catalog's channel names.
func (f *Feed) Harvest() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(channelNames)/4 + 1
	names := make([]string, 0, n)
	seen := make(map[int]bool)
	for len(names) < n {
		ci := f.rng.Intn(len(channelNames))
		if seen[ci] {
			continue
		}
		seen[ci] = true
		names = append(names, channelNames[ci])
	}
	return names
}

func randomID(rng *rand.Rand) string {
	b := make([]byte, 11)
	for i := range b {
		b[i] = idAlphabet[rng.Intn(len(idAlphabet))]
	}
	return string(b)
}

func viewCount(rng *rand.Rand) int64 {
	// Log-ish spread: plenty of small videos, a few huge ones.
	switch rng.Intn(10) {
	case 0:
		return int64(rng.Intn(900) + 50)
	case 1, 2:
		return int64(rng.Intn(9000) + 1000)
	case 9:
		return int64(rng.Intn(40_000_000) + 1_000_000)
	default:
		return int64(rng.Intn(900_000) + 10_000)
	}
}

func viewString(v int64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM views", float64(v)/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fK views", float64(v)/1_000)
	default:
		return fmt.Sprintf("%d views", v)
	}
}

func ageText(rng *rand.Rand) string {
	units := []string{"hour", "day", "week", "month", "year"}
	unit := units[rng.Intn(len(units))]
	n := rng.Intn(11) + 1
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
