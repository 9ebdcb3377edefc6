package addcmder_test

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	addcmder "github.com/papercomputeco/namematch/cmd/namematch/add"
	deletecmder "github.com/papercomputeco/namematch/cmd/namematch/delete"
	matchcmder "github.com/papercomputeco/namematch/cmd/namematch/match"
	"github.com/papercomputeco/namematch/pkg/matcher"
	testutils "github.com/papercomputeco/namematch/pkg/utils/test"
)

var _ = Describe("NewAddCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := addcmder.NewAddCmd()
		Expect(cmd.Use).To(Equal("add [names...]"))
	})

	It("has a --file flag", func() {
		cmd := addcmder.NewAddCmd()
		f := cmd.Flags().Lookup("file")
		Expect(f).NotTo(BeNil())
		Expect(f.Shorthand).To(Equal("f"))
	})
})

var _ = Describe("Add command execution", func() {
	var (
		server *httptest.Server
		dir    string
		args   []string
	)

	BeforeEach(func() {
		server = testutils.NewEmbeddingServer()
		dir = GinkgoT().TempDir()
		args = append(testutils.LocalStoreArgs(server.URL, dir), "--collection", "people")
	})

	AfterEach(func() {
		server.Close()
	})

	search := func(query string) string {
		out, err := testutils.ExecuteCommand(matchcmder.NewMatchCmd(), nil, append(args, "--top", "1", query)...)
		Expect(err).NotTo(HaveOccurred())
		return out
	}

	It("adds names given as arguments", func() {
		out, err := testutils.ExecuteCommand(addcmder.NewAddCmd(), nil, append(args, "  Zorro ", "Xena")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Added 2 names to the vector store."))

		Expect(search("zoro")).To(ContainSubstring("Best Match: 'zorro'"))
	})

	It("adds names read from stdin", func() {
		out, err := testutils.ExecuteCommand(addcmder.NewAddCmd(), strings.NewReader("Zorro\n\nXena\n"), args...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Added 2 names to the vector store."))
	})

	It("adds names from a text file", func() {
		path := filepath.Join(dir, "names.txt")
		Expect(os.WriteFile(path, []byte("Zorro\nXena\nYuri\n"), 0o600)).To(Succeed())

		out, err := testutils.ExecuteCommand(addcmder.NewAddCmd(), nil, append(args, "--file", path)...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Added 3 names to the vector store."))
	})

	It("skips non-string elements of a JSON file", func() {
		path := filepath.Join(dir, "names.json")
		Expect(os.WriteFile(path, []byte(`["Zorro", 7, "Xena"]`), 0o600)).To(Succeed())

		out, err := testutils.ExecuteCommand(addcmder.NewAddCmd(), nil, append(args, "--file", path)...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Skipping non-string element during preprocessing: 7"))
		Expect(out).To(ContainSubstring("Added 2 names to the vector store."))
	})

	It("rejects a JSON file that is not a list", func() {
		path := filepath.Join(dir, "names.json")
		Expect(os.WriteFile(path, []byte(`{"names": ["Zorro"]}`), 0o600)).To(Succeed())

		out, err := testutils.ExecuteCommand(addcmder.NewAddCmd(), nil, append(args, "--file", path)...)
		Expect(err).To(MatchError(matcher.ErrNotAList))
		Expect(err.Error()).To(ContainSubstring("holds a JSON object"))
		Expect(out).NotTo(ContainSubstring("initialized"))

		_, err = testutils.ExecuteCommand(deletecmder.NewDeleteCmd(), nil, args...)
		Expect(err).To(MatchError(`could not delete collection "people"`))
	})

	It("adds the arguments along with a JSON file", func() {
		path := filepath.Join(dir, "names.json")
		Expect(os.WriteFile(path, []byte(`["Xena"]`), 0o600)).To(Succeed())

		out, err := testutils.ExecuteCommand(addcmder.NewAddCmd(), nil, append(args, "--file", path, "Zorro")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Added 2 names to the vector store."))

		Expect(search("zoro")).To(ContainSubstring("Best Match: 'zorro'"))
	})

	It("adds the arguments along with a text file", func() {
		path := filepath.Join(dir, "names.txt")
		Expect(os.WriteFile(path, []byte("Xena\n"), 0o600)).To(Succeed())

		out, err := testutils.ExecuteCommand(addcmder.NewAddCmd(), nil, append(args, "-f", path, "Zorro")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Added 2 names to the vector store."))
	})

	It("fails when there is nothing to add", func() {
		_, err := testutils.ExecuteCommand(addcmder.NewAddCmd(), strings.NewReader(""), args...)
		Expect(err).To(MatchError("no names to add"))
	})
})
