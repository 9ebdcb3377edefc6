package chatcmder

import (
	"context"
	"log/slog"

	"github.com/papercomputeco/namematch/api/search"
	"github.com/papercomputeco/namematch/pkg/dotdir"
	"github.com/papercomputeco/namematch/pkg/matcher"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

// historyStore persists the transcript between runs. *dotdir.Manager
// satisfies it.
type historyStore interface {
	SaveChatHistory(history *dotdir.ChatHistory, overrideDir string) error
	ClearChatHistory(overrideDir string) error
}

// session is the state of one interactive chat run: the active matcher and
// the transcript. Actions run one at a time. The transcript is only changed
// from the UI loop, never while an action is running.
type session struct {
	newMatcher search.MatcherFactory
	seed       []string
	topK       int

	matcher  *matcher.Matcher
	recorder *matcher.Recorder

	history    []dotdir.ChatMessage
	store      historyStore
	historyDir string

	logger *slog.Logger
}

type sessionConfig struct {
	NewMatcher search.MatcherFactory
	Seed       []string
	TopK       int

	// History is the transcript restored from a previous run.
	History []dotdir.ChatMessage

	// Store persists the transcript under HistoryDir. Optional.
	Store      historyStore
	HistoryDir string

	Logger *slog.Logger
}

func newSession(cfg sessionConfig) *session {
	return &session{
		newMatcher: cfg.NewMatcher,
		seed:       cfg.Seed,
		topK:       cfg.TopK,
		recorder:   &matcher.Recorder{},
		history:    cfg.History,
		store:      cfg.Store,
		historyDir: cfg.HistoryDir,
		logger:     cfg.Logger,
	}
}

// collection returns the name of the collection the active matcher serves,
// or "" when there is none.
func (s *session) collection() string {
	if s.matcher == nil {
		return ""
	}
	return s.matcher.CollectionName()
}

// open makes a matcher for name the active one and initializes it.
func (s *session) open(ctx context.Context, name string) []matcher.Notice {
	if s.replace(name) {
		s.matcher.Initialize(ctx)
	}
	return s.notices()
}

// createCollection makes a matcher for name the active one, creating the
// collection and seeding it with the sample names when it is empty.
func (s *session) createCollection(ctx context.Context, name string) []matcher.Notice {
	if s.replace(name) {
		s.matcher.GetCollection(ctx, s.seed)
	}
	return s.notices()
}

// deleteCollection deletes the named collection. The active matcher is used
// when it serves that collection, otherwise a temporary one.
func (s *session) deleteCollection(ctx context.Context, name string) []matcher.Notice {
	s.recorder.Reset()

	if s.matcher != nil && s.matcher.CollectionName() == name {
		s.matcher.DeleteCollection(ctx)
		return s.notices()
	}

	temp, err := s.newMatcher(name, s.recorder)
	if err != nil {
		s.recorder.Error(err.Error())
		return s.notices()
	}
	defer s.closeMatcher(temp)

	if temp.Connect(ctx) {
		temp.DeleteCollection(ctx)
	}
	return s.notices()
}

// search returns the markdown reply for query.
func (s *session) search(ctx context.Context, query string) (string, []matcher.Notice) {
	s.recorder.Reset()

	if s.matcher == nil {
		s.recorder.Warn("Vector store not initialized. Cannot perform search.")
		return matcher.NoMatchesMessage, s.notices()
	}

	matches := s.matcher.FindSimilarNames(ctx, query, s.topK)
	return matcher.FormatMarkdown(matches), s.notices()
}

// appendMessage adds a message to the transcript and persists it.
func (s *session) appendMessage(role, content string) {
	s.history = append(s.history, dotdir.ChatMessage{Role: role, Content: content})
	if s.store == nil {
		return
	}

	err := s.store.SaveChatHistory(&dotdir.ChatHistory{
		Collection: s.collection(),
		Messages:   s.history,
	}, s.historyDir)
	if err != nil {
		s.logger.Warn("saving chat history", "error", err)
	}
}

// clearHistory empties the transcript.
func (s *session) clearHistory() {
	s.history = nil
	if s.store == nil {
		return
	}
	if err := s.store.ClearChatHistory(s.historyDir); err != nil {
		s.logger.Warn("clearing chat history", "error", err)
	}
}

// close releases the active matcher.
func (s *session) close() {
	if s.matcher != nil {
		s.closeMatcher(s.matcher)
		s.matcher = nil
	}
}

func (s *session) replace(name string) bool {
	s.recorder.Reset()
	s.close()

	m, err := s.newMatcher(name, s.recorder)
	if err != nil {
		s.recorder.Error(err.Error())
		return false
	}
	s.matcher = m
	return true
}

func (s *session) closeMatcher(m *matcher.Matcher) {
	if err := m.Close(); err != nil {
		s.logger.Warn("closing matcher", "collection", m.CollectionName(), "error", err)
	}
}

func (s *session) notices() []matcher.Notice {
	out := make([]matcher.Notice, len(s.recorder.Notices))
	copy(out, s.recorder.Notices)
	return out
}
