package matcher_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/namematch/pkg/matcher"
	"github.com/papercomputeco/namematch/pkg/vector"
)

var _ = Describe("FormatMarkdown", func() {
	It("renders the best match and every match", func() {
		out := matcher.FormatMarkdown([]vector.Match{
			{Document: vector.Document{Text: "geetha"}, Score: 0.91234},
			{Document: vector.Document{Text: "gita"}, Score: 0.8},
		})
		Expect(out).To(Equal("Here are the top matches:\n\n" +
			"**Best Match:** 'geetha' (Score: 0.9123)\n\n" +
			"**Other Similar Matches:**\n" +
			"- 'geetha' (Score: 0.9123)\n" +
			"- 'gita' (Score: 0.8000)\n"))
	})

	It("explains an empty result", func() {
		Expect(matcher.FormatMarkdown(nil)).To(Equal(matcher.NoMatchesMessage))
	})
})
