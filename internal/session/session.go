package session

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/lookout/internal/logsapi"
	"github.com/five82/lookout/internal/logtail"
)

const (
	// DefaultCharacter is used when no character name is configured.
	DefaultCharacter = "unknown"
	// ReloadingNotice is shown between a max-lines reset and its first response.
	ReloadingNotice = "Reloading logs..."
	// ErrorPlaceholder replaces the buffer after a failed fetch.
	ErrorPlaceholder = "Error loading logs. Retrying..."
)

// Config seeds a new State.
type Config struct {
	Character       string
	MaxLines        int
	Level           logtail.Level
	FollowThreshold int
	Logger          *zap.Logger
}

// Health summarises recent fetch outcomes.
type Health struct {
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline reports whether the endpoint has been unreachable for more than
// one poll in a row.
func (h Health) IsOffline() bool {
	return h.ConsecutiveFailures >= 2
}

// State is the whole log session. It is not safe for concurrent use: one
// goroutine feeds it events and reads it back.
type State struct {
	character string
	cursor    logsapi.Cursor
	buffer    *Buffer
	filter    Filter
	search    Search
	follow    Follow

	visible    bool
	generation string
	inFlight   bool

	notice  string
	errText string
	health  Health
	// recent counts the entries added by the last applied batch.
	recent int

	log           *zap.Logger
	now           func() time.Time
	newGeneration func() string
}

// New builds an idle session. Call Start to get the first fetch.
func New(cfg Config) *State {
	if cfg.Character == "" {
		cfg.Character = DefaultCharacter
	}
	if _, ok := cfg.Level.Rank(); !ok {
		cfg.Level = logtail.LevelDebug
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &State{
		character:     cfg.Character,
		buffer:        NewBuffer(cfg.MaxLines),
		filter:        Filter{Level: cfg.Level},
		follow:        NewFollow(cfg.FollowThreshold),
		visible:       true,
		now:           time.Now,
		newGeneration: uuid.NewString,
	}
	s.generation = s.newGeneration()
	s.log = cfg.Logger.With(zap.String("character", s.character))
	return s
}

// Start issues the initial fetch.
func (s *State) Start() Effects {
	return Effects{Fetch: s.beginFetch()}
}

// Dispatch applies one event and returns what the driver must do next.
func (s *State) Dispatch(ev Event) Effects {
	switch ev := ev.(type) {
	case TickElapsed:
		return s.onTick()
	case VisibilityChanged:
		return s.onVisibility(ev.Visible)
	case FetchCompleted:
		return s.onFetchCompleted(ev)
	case FilterChanged:
		return s.onFilter(ev.Level)
	case SearchTermChanged:
		return s.onSearchTerm(ev.Term)
	case SearchNavigated:
		return s.onNavigate(ev.Direction)
	case MaxLinesChanged:
		return s.onMaxLines(ev.MaxLines)
	case ScrollMoved:
		s.follow.Observe(ev.Total, ev.Offset, ev.Height)
		return Effects{}
	default:
		return Effects{}
	}
}

func (s *State) onTick() Effects {
	if !s.visible || s.inFlight {
		return Effects{}
	}
	return Effects{Fetch: s.beginFetch()}
}

func (s *State) onVisibility(visible bool) Effects {
	was := s.visible
	s.visible = visible
	if !visible {
		s.log.Debug("viewer hidden, pausing polls")
		return Effects{}
	}
	if was || s.inFlight {
		return Effects{}
	}
	s.log.Debug("viewer visible, resuming polls")
	return Effects{Fetch: s.beginFetch()}
}

func (s *State) beginFetch() *FetchRequest {
	s.inFlight = true
	return &FetchRequest{
		Generation: s.generation,
		Query: logsapi.Query{
			CharacterName: s.character,
			Offset:        s.cursor,
		},
	}
}

func (s *State) onFetchCompleted(ev FetchCompleted) Effects {
	if ev.Generation != s.generation {
		s.log.Debug("discarding stale fetch result",
			zap.String("session", ev.Generation),
			zap.String("current", s.generation))
		return Effects{}
	}
	s.inFlight = false
	if ev.Err != nil {
		return s.fail(ev.Err)
	}
	return s.apply(ev.Batch)
}

func (s *State) fail(err error) Effects {
	s.log.Warn("log poll failed",
		zap.String("session", s.generation),
		zap.String("cursor", s.cursor.String()),
		zap.Error(err))

	s.buffer.Reset()
	s.search.Forget()
	s.recent = 0
	s.notice = ""
	s.errText = ErrorPlaceholder
	s.health.LastError = err
	s.health.LastUpdated = s.now()
	s.health.ConsecutiveFailures++
	return Effects{Changed: true}
}

func (s *State) apply(batch logsapi.Batch) Effects {
	s.recent = 0
	if batch.HasOffset() && !batch.IsInitial {
		if before, ok := batch.Offset.Before(s.cursor); ok && before {
			s.log.Warn("cursor moved backwards, server log was likely rotated",
				zap.String("cursor", s.cursor.String()),
				zap.String("received", batch.Offset.String()))
		}
	}

	hadPlaceholder := s.Placeholder() != ""
	s.markHealthy()
	s.notice = ""
	s.errText = ""

	if batch.HasOffset() {
		s.cursor = batch.Offset
	}

	records := logtail.ParseChunk(batch.Content)
	if batch.IsInitial {
		s.buffer.Reset()
	}
	if !batch.IsInitial && len(records) == 0 {
		return Effects{Changed: hadPlaceholder}
	}

	first := s.buffer.Append(records...)
	s.recent = s.buffer.Len() - first
	entries := s.buffer.Entries()
	s.filter.Apply(entries[first:])
	if s.search.Active() {
		s.search.Run(s.search.Term(), entries)
	} else {
		s.search.Forget()
	}

	s.log.Debug("applied batch",
		zap.String("cursor", s.cursor.String()),
		zap.Int("records", len(records)),
		zap.Bool("initial", batch.IsInitial))
	return Effects{Changed: true, SnapToBottom: s.follow.Enabled()}
}

func (s *State) markHealthy() {
	s.health.LastError = nil
	s.health.LastUpdated = s.now()
	s.health.ConsecutiveFailures = 0
}

func (s *State) onFilter(level logtail.Level) Effects {
	if _, ok := level.Rank(); !ok || level == s.filter.Level {
		return Effects{}
	}
	s.filter.Level = level
	entries := s.buffer.Entries()
	s.filter.Apply(entries)
	if s.search.Active() {
		s.search.Run(s.search.Term(), entries)
	}
	return Effects{Changed: true, SnapToBottom: s.follow.Enabled()}
}

func (s *State) onSearchTerm(term string) Effects {
	s.search.Run(term, s.buffer.Entries())
	eff := Effects{Changed: true}
	eff.reveal(s.search.Current())
	return eff
}

func (s *State) onNavigate(dir Direction) Effects {
	if !s.search.Navigate(dir, s.buffer.Entries()) {
		return Effects{}
	}
	eff := Effects{Changed: true}
	eff.reveal(s.search.Current())
	return eff
}

func (s *State) onMaxLines(maxLines int) Effects {
	if maxLines < 0 {
		maxLines = 0
	}
	s.generation = s.newGeneration()
	s.log.Info("max lines changed, reloading",
		zap.Int("max_lines", maxLines),
		zap.String("session", s.generation))

	s.buffer.SetCapacity(maxLines)
	s.search.Clear(nil)
	s.recent = 0
	s.cursor = ""
	s.errText = ""
	s.notice = ReloadingNotice
	return Effects{
		Fetch:           s.beginFetch(),
		Changed:         true,
		PersistMaxLines: true,
	}
}

// Character returns the entity whose log is followed.
func (s *State) Character() string { return s.character }

// Cursor returns the current stream position.
func (s *State) Cursor() logsapi.Cursor { return s.cursor }

// Generation identifies the current session; it changes on every full reset.
func (s *State) Generation() string { return s.generation }

// InFlight reports whether a fetch of the current generation is pending.
func (s *State) InFlight() bool { return s.inFlight }

// Visible reports whether the viewer is in the foreground.
func (s *State) Visible() bool { return s.visible }

// Level returns the filter threshold.
func (s *State) Level() logtail.Level { return s.filter.Level }

// MaxLines returns the buffer cap; zero means unlimited.
func (s *State) MaxLines() int { return s.buffer.Capacity() }

// Following reports whether new content snaps the view to the bottom.
func (s *State) Following() bool { return s.follow.Enabled() }

// Search exposes the search state for rendering. It must not be mutated.
func (s *State) Search() *Search { return &s.search }

// Health returns the fetch outcome summary.
func (s *State) Health() Health { return s.health }

// Entries returns the buffered entries oldest first. Callers must not
// modify or retain the slice.
func (s *State) Entries() []Entry { return s.buffer.Entries() }

// Recent returns the entries added by the most recently applied batch that
// are still buffered.
func (s *State) Recent() []Entry {
	entries := s.buffer.Entries()
	return entries[len(entries)-s.recent:]
}

// Placeholder returns the text to show instead of the buffer, if any.
func (s *State) Placeholder() string {
	if s.errText != "" {
		return s.errText
	}
	return s.notice
}

// VisibleLines returns the rendered text of every visible entry.
func (s *State) VisibleLines() []string {
	entries := s.buffer.Entries()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Visible {
			lines = append(lines, e.Text)
		}
	}
	return lines
}

// DisplayLine maps a buffer index to its row among visible entries, or -1
// when the entry is hidden or out of range.
func (s *State) DisplayLine(index int) int {
	entries := s.buffer.Entries()
	if index < 0 || index >= len(entries) || !entries[index].Visible {
		return -1
	}
	row := 0
	for i := 0; i < index; i++ {
		if entries[i].Visible {
			row++
		}
	}
	return row
}
