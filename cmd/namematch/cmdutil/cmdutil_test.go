package cmdutil_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/namematch/cmd/namematch/cmdutil"
	"github.com/papercomputeco/namematch/pkg/config"
	"github.com/papercomputeco/namematch/pkg/logger"
	"github.com/papercomputeco/namematch/pkg/matcher"
	testutils "github.com/papercomputeco/namematch/pkg/utils/test"
)

var _ = Describe("MatcherFlagKeys", func() {
	It("puts the extra keys before the provider flags", func() {
		keys := cmdutil.MatcherFlagKeys(config.FlagCollection)
		Expect(keys[0]).To(Equal(config.FlagCollection))
		Expect(keys[1:]).To(Equal(config.StoreFlagKeys))
	})
})

var _ = Describe("Debug", func() {
	It("reads the persistent flag", func() {
		root := &cobra.Command{Use: "root"}
		root.PersistentFlags().BoolP("debug", "d", false, "")
		child := &cobra.Command{Use: "child", Run: func(*cobra.Command, []string) {}}
		root.AddCommand(child)

		root.SetArgs([]string{"child", "--debug"})
		Expect(root.Execute()).To(Succeed())
		Expect(cmdutil.Debug(child)).To(BeTrue())
	})

	It("is false when the flag is not registered", func() {
		Expect(cmdutil.Debug(&cobra.Command{Use: "bare"})).To(BeFalse())
	})
})

var _ = Describe("OpenLogFile", func() {
	It("creates the file inside the config dir", func() {
		dir := GinkgoT().TempDir()
		cmd := &cobra.Command{Use: "chat"}
		cmd.Flags().String("config-dir", dir, "")

		f, err := cmdutil.OpenLogFile(cmd, "chat.log")
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.Name()).To(Equal(filepath.Join(dir, "chat.log")))
		_, err = os.Stat(f.Name())
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("MatcherFactory", func() {
	It("falls back to the configured collection", func() {
		cfg := config.NewDefaultConfig()
		cfg.Embedding.APIKey = "key"
		cfg.VectorStore.Path = GinkgoT().TempDir()
		cfg.Matcher.Collection = "people"

		m, err := cmdutil.MatcherFactory(cfg, logger.Nop())("", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.CollectionName()).To(Equal("people"))
	})

	It("reports missing credentials", func() {
		cfg := config.NewDefaultConfig()
		cfg.VectorStore.Path = GinkgoT().TempDir()

		_, err := cmdutil.MatcherFactory(cfg, logger.Nop())("x", nil)
		Expect(err).To(MatchError(matcher.ErrMissingConfig))
	})
})

var _ = Describe("SharedMatcherFactory", func() {
	It("hands every matcher the same store and never closes it", func() {
		cfg := config.NewDefaultConfig()
		cfg.Embedding.APIKey = "key"
		cfg.VectorStore.Path = GinkgoT().TempDir()
		store := testutils.NewMockVectorStore()

		newMatcher := cmdutil.SharedMatcherFactory(cfg, logger.Nop(), store)
		ctx := context.Background()

		for _, name := range []string{"people", "places"} {
			m, err := newMatcher(name, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Connect(ctx)).To(BeTrue())
			Expect(m.Close()).To(Succeed())
		}
		Expect(store.Closed).To(BeFalse())

		m, err := newMatcher("people", nil)
		Expect(err).NotTo(HaveOccurred())
		defer m.Close()
		Expect(m.Connect(ctx)).To(BeTrue())

		_, err = store.Open(ctx, "people")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.DeleteCollection(ctx)).To(BeTrue())
		Expect(store.Collections).NotTo(HaveKey("people"))
	})
})
