package deletecmder_test

import (
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	addcmder "github.com/papercomputeco/namematch/cmd/namematch/add"
	deletecmder "github.com/papercomputeco/namematch/cmd/namematch/delete"
	testutils "github.com/papercomputeco/namematch/pkg/utils/test"
)

var _ = Describe("NewDeleteCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := deletecmder.NewDeleteCmd()
		Expect(cmd.Use).To(Equal("delete"))
	})

	It("rejects any arguments", func() {
		cmd := deletecmder.NewDeleteCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).NotTo(Succeed())
	})
})

var _ = Describe("Delete command execution", func() {
	var (
		server *httptest.Server
		args   []string
	)

	BeforeEach(func() {
		server = testutils.NewEmbeddingServer()
		args = append(testutils.LocalStoreArgs(server.URL, GinkgoT().TempDir()), "--collection", "people")
	})

	AfterEach(func() {
		server.Close()
	})

	It("deletes an existing collection", func() {
		_, err := testutils.ExecuteCommand(addcmder.NewAddCmd(), nil, append(args, "Zorro")...)
		Expect(err).NotTo(HaveOccurred())

		out, err := testutils.ExecuteCommand(deletecmder.NewDeleteCmd(), nil, args...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Collection 'people' successfully deleted."))
	})

	It("fails for a collection that does not exist", func() {
		out, err := testutils.ExecuteCommand(deletecmder.NewDeleteCmd(), nil, args...)
		Expect(err).To(MatchError(`could not delete collection "people"`))
		Expect(out).To(ContainSubstring("Failed to delete collection 'people'"))
	})
})
