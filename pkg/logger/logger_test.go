package logger_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/namematch/pkg/config"
	"github.com/papercomputeco/namematch/pkg/embeddings"
	"github.com/papercomputeco/namematch/pkg/logger"
	"github.com/papercomputeco/namematch/pkg/matcher"
	testutils "github.com/papercomputeco/namematch/pkg/utils/test"
	"github.com/papercomputeco/namematch/pkg/vector"
)

// jsonLines decodes every line written by a JSON logger.
func jsonLines(r io.Reader) []map[string]any {
	var records []map[string]any
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		var rec map[string]any
		Expect(json.Unmarshal(scanner.Bytes(), &rec)).To(Succeed(), scanner.Text())
		records = append(records, rec)
	}
	Expect(scanner.Err()).NotTo(HaveOccurred())
	return records
}

var _ = Describe("New", func() {
	It("writes slog text at info level by default", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf))
		l.Debug("hidden")
		l.Info("opened", "collection", "people")

		Expect(buf.String()).NotTo(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring("msg=opened collection=people"))
	})

	It("reports debug records with their caller under --debug", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true), logger.WithDebug(true))
		l.Debug("embedding query")

		records := jsonLines(&buf)
		Expect(records).To(HaveLen(1))
		Expect(records[0]["level"]).To(Equal("DEBUG"))
		Expect(records[0]).To(HaveKey(slog.SourceKey))
	})

	It("keeps the last format option", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithJSON(true))
		l.Info("listening", "addr", ":8080")

		Expect(jsonLines(&buf)[0]["addr"]).To(Equal(":8080"))
	})

	It("ignores a nil writer", func() {
		Expect(func() {
			logger.New(logger.WithWriter(nil)).Debug("dropped")
		}).NotTo(Panic())
	})

	It("appends JSON lines to the chat log file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "chat.log")

		for _, msg := range []string{"session started", "session closed"} {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			Expect(err).NotTo(HaveOccurred())

			l := logger.New(logger.WithJSON(true), logger.WithWriter(f), logger.WithComponent("chat"))
			l.Warn(msg, "error", "history unreadable")
			Expect(f.Close()).To(Succeed())
		}

		f, err := os.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		records := jsonLines(f)
		Expect(records).To(HaveLen(2))
		Expect(records[0]["msg"]).To(Equal("session started"))
		Expect(records[1]["msg"]).To(Equal("session closed"))
		for _, rec := range records {
			Expect(rec["component"]).To(Equal("chat"))
			Expect(rec["level"]).To(Equal("WARN"))
		}
	})

	It("carries the collection bound by the matcher", func() {
		var buf bytes.Buffer
		cfg := config.NewDefaultConfig()
		cfg.Embedding.APIKey = "test-key"

		store := testutils.NewMockVectorStore()
		m, err := matcher.New(matcher.Options{
			Collection: "people",
			Config:     cfg,
			Logger:     logger.New(logger.WithJSON(true), logger.WithDebug(true), logger.WithWriter(&buf)),
			NewEmbedder: func(context.Context, config.EmbeddingConfig) (embeddings.Embedder, error) {
				return testutils.NewMockEmbedder(), nil
			},
			NewStore: matcher.ShareStore(store),
		})
		Expect(err).NotTo(HaveOccurred())
		defer m.Close()

		ctx := context.Background()
		Expect(m.Connect(ctx)).To(BeTrue())
		Expect(m.DeleteCollection(ctx)).To(BeFalse())

		records := jsonLines(&buf)
		Expect(records).NotTo(BeEmpty())
		for _, rec := range records {
			Expect(rec["collection"]).To(Equal("people"))
		}
		Expect(m.Err()).To(MatchError(vector.ErrCollectionNotFound))
	})
})

var _ = Describe("Nop", func() {
	It("is disabled at every level", func() {
		h := logger.Nop().Handler()
		for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
			Expect(h.Enabled(context.Background(), level)).To(BeFalse())
		}
	})
})

var _ = Describe("Multi", func() {
	var (
		terminal bytes.Buffer
		file     bytes.Buffer
	)

	// The same pair serve builds: pretty lines for the terminal and JSON for
	// serve.log.
	build := func(debug bool) *slog.Logger {
		terminal.Reset()
		file.Reset()
		return logger.Multi(
			logger.New(logger.WithDebug(debug), logger.WithPretty(true), logger.WithWriter(&terminal)),
			logger.New(logger.WithDebug(debug), logger.WithJSON(true), logger.WithWriter(&file), logger.WithComponent("serve")),
		)
	}

	It("writes every record to both sinks", func() {
		build(false).Info("listening", "addr", ":8080")

		Expect(terminal.String()).To(ContainSubstring("listening"))
		Expect(terminal.String()).NotTo(ContainSubstring("component"))

		records := jsonLines(&file)
		Expect(records).To(HaveLen(1))
		Expect(records[0]["addr"]).To(Equal(":8080"))
		Expect(records[0]["component"]).To(Equal("serve"))
	})

	It("drops debug records unless --debug is set", func() {
		build(false).Debug("request", "path", "/v1/search")
		Expect(terminal.String()).To(BeEmpty())
		Expect(file.String()).To(BeEmpty())

		build(true).Debug("request", "path", "/v1/search")
		Expect(terminal.String()).To(ContainSubstring("request"))
		Expect(jsonLines(&file)[0]["path"]).To(Equal("/v1/search"))
	})

	It("passes With and WithGroup to each sink", func() {
		l := build(false).With("collection", "people").WithGroup("search")
		l.Info("searched", "top_k", 3)

		Expect(terminal.String()).To(ContainSubstring("people"))

		rec := jsonLines(&file)[0]
		Expect(rec["collection"]).To(Equal("people"))
		Expect(rec["search"]).To(HaveKeyWithValue("top_k", BeNumerically("==", 3)))
	})

	It("keeps writing to the other sinks when one fails", func() {
		var buf bytes.Buffer
		l := logger.Multi(
			logger.New(logger.WithJSON(true), logger.WithWriter(failingWriter{})),
			logger.New(logger.WithJSON(true), logger.WithWriter(&buf)),
		)

		err := l.Handler().Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still here", 0))
		Expect(err).To(MatchError(io.ErrClosedPipe))
		Expect(buf.String()).To(ContainSubstring("still here"))
	})
})

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }
