package matcher_test

import (
	"context"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/namematch/pkg/config"
	"github.com/papercomputeco/namematch/pkg/embeddings"
	"github.com/papercomputeco/namematch/pkg/logger"
	"github.com/papercomputeco/namematch/pkg/matcher"
	"github.com/papercomputeco/namematch/pkg/names"
	testutils "github.com/papercomputeco/namematch/pkg/utils/test"
	"github.com/papercomputeco/namematch/pkg/vector"
)

func validConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Embedding.APIKey = "test-key"
	cfg.VectorStore.Path = "/tmp/namematch-test"
	return cfg
}

var _ = Describe("Matcher", func() {
	var (
		ctx      context.Context
		store    *testutils.MockVectorStore
		embedder *testutils.MockEmbedder
		recorder *matcher.Recorder
		opts     matcher.Options
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = testutils.NewMockVectorStore()
		embedder = testutils.NewMockEmbedder()
		recorder = &matcher.Recorder{}
		opts = matcher.Options{
			Config:   validConfig(),
			Reporter: recorder,
			Logger:   logger.Nop(),
			NewEmbedder: func(context.Context, config.EmbeddingConfig) (embeddings.Embedder, error) {
				return embedder, nil
			},
			NewStore: func(context.Context, *config.Config, *slog.Logger) (vector.Store, error) {
				return store, nil
			},
		}
	})

	newMatcher := func() *matcher.Matcher {
		m, err := matcher.New(opts)
		Expect(err).NotTo(HaveOccurred())
		return m
	}

	Describe("New", func() {
		It("requires configuration", func() {
			_, err := matcher.New(matcher.Options{})
			Expect(err).To(MatchError(matcher.ErrMissingConfig))
		})

		It("reports a missing API key as ErrMissingConfig", func() {
			opts.Config.Embedding.APIKey = ""
			_, err := matcher.New(opts)
			Expect(errors.Is(err, matcher.ErrMissingConfig)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("GOOGLE_API_KEY"))
		})

		It("reports a missing storage path as ErrMissingConfig", func() {
			opts.Config.VectorStore.Path = ""
			_, err := matcher.New(opts)
			Expect(errors.Is(err, matcher.ErrMissingConfig)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("CHROMA_DB_PATH"))
		})

		It("defaults the collection name from config", func() {
			opts.Config.Matcher.Collection = "people"
			Expect(newMatcher().CollectionName()).To(Equal("people"))
		})

		It("prefers an explicit collection name", func() {
			opts.Collection = "places"
			Expect(newMatcher().CollectionName()).To(Equal("places"))
		})

		It("starts uninitialized", func() {
			Expect(newMatcher().Initialized()).To(BeFalse())
		})
	})

	Describe("Initialize", func() {
		It("opens the collection and reports success", func() {
			m := newMatcher()
			Expect(m.Initialize(ctx)).To(BeTrue())
			Expect(m.Initialized()).To(BeTrue())
			Expect(store.Collections).To(HaveKey("test"))
			Expect(recorder.Notices).To(ContainElement(matcher.Notice{
				Level:   matcher.LevelSuccess,
				Message: "Vector store for collection 'test' initialized successfully.",
			}))
		})

		It("reports failures and stays uninitialized", func() {
			store.FailOpen = true
			m := newMatcher()
			Expect(m.Initialize(ctx)).To(BeFalse())
			Expect(m.Initialized()).To(BeFalse())
			Expect(recorder.Has(matcher.LevelError)).To(BeTrue())
		})

		It("reports embedder construction failures", func() {
			opts.NewEmbedder = func(context.Context, config.EmbeddingConfig) (embeddings.Embedder, error) {
				return nil, errors.New("bad key")
			}
			m := newMatcher()
			Expect(m.Initialize(ctx)).To(BeFalse())
			Expect(recorder.Notices[len(recorder.Notices)-1].Message).To(ContainSubstring("bad key"))
		})
	})

	Describe("AddNames", func() {
		It("warns and adds nothing when not initialized", func() {
			m := newMatcher()
			Expect(m.AddNames(ctx, []string{"Geetha"})).To(Equal(0))
			Expect(recorder.Notices).To(ContainElement(matcher.Notice{
				Level:   matcher.LevelWarn,
				Message: "Vector store not initialized. Cannot add names.",
			}))
		})

		It("stores normalized names", func() {
			m := newMatcher()
			Expect(m.Initialize(ctx)).To(BeTrue())

			Expect(m.AddNames(ctx, []string{" Geetha", "LONDON "})).To(Equal(2))

			docs := store.Collections["test"].Documents
			Expect(docs).To(HaveLen(2))
			Expect(docs[0].Text).To(Equal("geetha"))
			Expect(docs[1].Text).To(Equal("london"))
			Expect(recorder.Notices).To(ContainElement(matcher.Notice{
				Level:   matcher.LevelSuccess,
				Message: "Added 2 names to the vector store.",
			}))
		})

		It("accepts duplicates", func() {
			m := newMatcher()
			Expect(m.Initialize(ctx)).To(BeTrue())
			Expect(m.AddNames(ctx, []string{"Gita", "gita"})).To(Equal(2))
			Expect(store.Collections["test"].Documents).To(HaveLen(2))
		})

		It("reports store failures and returns 0", func() {
			m := newMatcher()
			Expect(m.Initialize(ctx)).To(BeTrue())
			store.Collections["test"].FailAdd = true

			Expect(m.AddNames(ctx, []string{"Gita"})).To(Equal(0))
			Expect(recorder.Has(matcher.LevelError)).To(BeTrue())
		})

		It("reports embedding failures and returns 0", func() {
			m := newMatcher()
			Expect(m.Initialize(ctx)).To(BeTrue())
			embedder.FailOn = "gita"

			Expect(m.AddNames(ctx, []string{"Gita"})).To(Equal(0))
			Expect(store.Collections["test"].Documents).To(BeEmpty())
		})
	})

	Describe("AddItems", func() {
		It("skips non-strings with a warning", func() {
			m := newMatcher()
			Expect(m.Initialize(ctx)).To(BeTrue())

			n, err := m.AddItems(ctx, []any{"Jon", 12, "Jane"})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(2))
			Expect(recorder.Notices).To(ContainElement(matcher.Notice{
				Level:   matcher.LevelWarn,
				Message: "Skipping non-string element during preprocessing: 12",
			}))
		})

		It("fails on a nil list", func() {
			m := newMatcher()
			Expect(m.Initialize(ctx)).To(BeTrue())

			_, err := m.AddItems(ctx, nil)
			Expect(err).To(MatchError(matcher.ErrNotAList))
		})
	})

	Describe("FindSimilarNames", func() {
		var m *matcher.Matcher

		BeforeEach(func() {
			m = newMatcher()
			Expect(m.Initialize(ctx)).To(BeTrue())
			Expect(m.AddNames(ctx, names.Sample())).To(Equal(120))
			recorder.Reset()
		})

		It("warns when not initialized", func() {
			fresh := newMatcher()
			Expect(fresh.FindSimilarNames(ctx, "geetha", 5)).To(BeEmpty())
			Expect(recorder.Notices).To(ContainElement(matcher.Notice{
				Level:   matcher.LevelWarn,
				Message: "Vector store not initialized. Cannot perform search.",
			}))
		})

		DescribeTable("returns empty for blank queries without touching the store",
			func(query string) {
				Expect(m.FindSimilarNames(ctx, query, 5)).To(BeEmpty())
				Expect(store.Collections["test"].Queries).To(Equal(0))
				Expect(recorder.Notices).To(ContainElement(matcher.Notice{
					Level:   matcher.LevelWarn,
					Message: "Query must be a non-empty string.",
				}))
			},
			Entry("empty", ""),
			Entry("spaces", "   "),
			Entry("tabs and newlines", "\t\n"),
		)

		It("finds a stored name in the top-k", func() {
			results := m.FindSimilarNames(ctx, "london", 5)
			Expect(results).To(HaveLen(5))

			texts := make([]string, len(results))
			for i, r := range results {
				texts[i] = r.Text
			}
			Expect(texts).To(ContainElement("london"))
			Expect(recorder.Notices).To(ContainElement(matcher.Notice{
				Level:   matcher.LevelInfo,
				Message: "Found 5 similar names for query: 'london'",
			}))
		})

		It("orders results by descending relevance", func() {
			results := m.FindSimilarNames(ctx, "Geetha", 10)
			Expect(results).To(HaveLen(10))
			for i := 1; i < len(results); i++ {
				Expect(results[i-1].Score).To(BeNumerically(">=", results[i].Score))
			}
		})

		It("defaults k to 10", func() {
			Expect(m.FindSimilarNames(ctx, "mumbai", 0)).To(HaveLen(10))
		})

		It("reports store failures and returns empty", func() {
			store.Collections["test"].FailQuery = true
			Expect(m.FindSimilarNames(ctx, "mumbai", 5)).To(BeEmpty())
			Expect(recorder.Has(matcher.LevelError)).To(BeTrue())
		})
	})

	Describe("DeleteCollection", func() {
		It("errors when no store client exists", func() {
			m := newMatcher()
			Expect(m.DeleteCollection(ctx)).To(BeFalse())
			Expect(recorder.Notices).To(ContainElement(matcher.Notice{
				Level:   matcher.LevelError,
				Message: "Vector store client not initialized. Cannot delete collection.",
			}))
		})

		It("deletes through a connected but uninitialized matcher", func() {
			seed := newMatcher()
			Expect(seed.Initialize(ctx)).To(BeTrue())

			m := newMatcher()
			Expect(m.Connect(ctx)).To(BeTrue())
			Expect(m.DeleteCollection(ctx)).To(BeTrue())
			Expect(store.Collections).NotTo(HaveKey("test"))
		})

		It("leaves the matcher uninitialized so searches warn instead of failing", func() {
			m := newMatcher()
			Expect(m.Initialize(ctx)).To(BeTrue())
			m.AddNames(ctx, []string{"Delhi"})

			Expect(m.DeleteCollection(ctx)).To(BeTrue())
			Expect(m.Initialized()).To(BeFalse())
			Expect(recorder.Notices).To(ContainElement(matcher.Notice{
				Level:   matcher.LevelSuccess,
				Message: "Collection 'test' successfully deleted.",
			}))

			recorder.Reset()
			Expect(m.FindSimilarNames(ctx, "delhi", 5)).To(BeEmpty())
			Expect(recorder.Has(matcher.LevelWarn)).To(BeTrue())
		})

		It("reports deleting a missing collection", func() {
			m := newMatcher()
			Expect(m.Connect(ctx)).To(BeTrue())
			Expect(m.DeleteCollection(ctx)).To(BeFalse())
			Expect(recorder.Notices[len(recorder.Notices)-1].Message).To(ContainSubstring("collection not found"))
			Expect(m.Err()).To(MatchError(vector.ErrCollectionNotFound))
		})

		It("records the missing client as the cause", func() {
			m := newMatcher()
			Expect(m.DeleteCollection(ctx)).To(BeFalse())
			Expect(m.Err()).To(MatchError(matcher.ErrNotInitialized))
		})

		It("has no cause after a successful delete", func() {
			seed := newMatcher()
			Expect(seed.Initialize(ctx)).To(BeTrue())

			m := newMatcher()
			Expect(m.Connect(ctx)).To(BeTrue())
			Expect(m.DeleteCollection(ctx)).To(BeTrue())
			Expect(m.Err()).NotTo(HaveOccurred())
		})
	})

	Describe("ShareStore", func() {
		It("keeps the store open when matchers close", func() {
			opts.NewStore = matcher.ShareStore(store)

			first := newMatcher()
			Expect(first.GetCollection(ctx, names.Sample())).To(BeTrue())
			Expect(first.Close()).To(Succeed())
			Expect(store.Closed).To(BeFalse())

			second := newMatcher()
			Expect(second.Initialize(ctx)).To(BeTrue())
			Expect(second.Size(ctx)).To(Equal(120))
			Expect(second.Close()).To(Succeed())
			Expect(store.Closed).To(BeFalse())
		})
	})

	Describe("GetCollection", func() {
		It("seeds an empty collection", func() {
			m := newMatcher()
			Expect(m.GetCollection(ctx, names.Sample())).To(BeTrue())
			Expect(m.Size(ctx)).To(Equal(120))
		})

		It("skips seeding when the collection has data", func() {
			m := newMatcher()
			Expect(m.GetCollection(ctx, names.Sample())).To(BeTrue())

			again := newMatcher()
			Expect(again.GetCollection(ctx, names.Sample())).To(BeTrue())
			Expect(again.Size(ctx)).To(Equal(120))
			Expect(recorder.Notices).To(ContainElement(matcher.Notice{
				Level:   matcher.LevelInfo,
				Message: "Collection already contains data. Skipping adding sample names.",
			}))
		})

		It("returns false when initialization fails", func() {
			store.FailOpen = true
			Expect(newMatcher().GetCollection(ctx, names.Sample())).To(BeFalse())
		})
	})

	Describe("Close", func() {
		It("closes the store and resets state", func() {
			m := newMatcher()
			Expect(m.Initialize(ctx)).To(BeTrue())
			Expect(m.Close()).To(Succeed())
			Expect(store.Closed).To(BeTrue())
			Expect(m.Initialized()).To(BeFalse())
		})
	})
})
