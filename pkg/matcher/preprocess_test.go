package matcher_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/namematch/pkg/matcher"
)

var _ = Describe("Preprocess", func() {
	It("trims and lower-cases every string", func() {
		out, err := matcher.Preprocess([]any{"  Geetha ", "NEW YORK", "london"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]string{"geetha", "new york", "london"}))
	})

	It("skips non-string elements", func() {
		in := []any{"Gita", 42, nil, 3.5, " Jon"}
		out, err := matcher.Preprocess(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]string{"gita", "jon"}))
		Expect(len(out)).To(BeNumerically("<=", len(in)))
	})

	It("keeps an empty list empty", func() {
		out, err := matcher.Preprocess([]any{})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())
	})

	It("keeps whitespace-only names as empty strings", func() {
		out, err := matcher.Preprocess([]any{"   "})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal([]string{""}))
	})

	It("fails when not given a list", func() {
		_, err := matcher.Preprocess(nil)
		Expect(err).To(MatchError(matcher.ErrNotAList))
	})

	It("normalizes every element of a mixed list", func() {
		in := []any{"MiXeD", "\tTabbed\n", "ÉCOLE", 7, "Priya"}
		out, err := matcher.Preprocess(in)
		Expect(err).NotTo(HaveOccurred())
		for _, s := range out {
			Expect(s).To(Equal(strings.ToLower(strings.TrimSpace(s))))
		}
		Expect(out).To(HaveLen(4))
	})
})

var _ = Describe("PreprocessStrings", func() {
	It("normalizes each name in order", func() {
		Expect(matcher.PreprocessStrings([]string{" A ", "b"})).To(Equal([]string{"a", "b"}))
	})
})
