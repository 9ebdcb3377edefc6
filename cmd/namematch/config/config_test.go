package configcmder_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	configcmder "github.com/papercomputeco/namematch/cmd/namematch/config"
	testutils "github.com/papercomputeco/namematch/pkg/utils/test"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	run := func(args ...string) (string, error) {
		return testutils.ExecuteCommand(configcmder.NewConfigCmd(), nil, append(args, "--config-dir", dir)...)
	}

	Describe("set subcommand", func() {
		It("sets a config value successfully", func() {
			_, err := run("set", "embedding.provider", "ollama")
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(filepath.Join(dir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("masks credentials in its output", func() {
			out, err := run("set", "embedding.api_key", "secret-key-1234")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("1234"))
			Expect(out).NotTo(ContainSubstring("secret-key"))
		})

		It("rejects unknown keys", func() {
			_, err := run("set", "invalid_key", "value")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("requires exactly two arguments", func() {
			_, err := run("set", "embedding.provider")
			Expect(err).To(HaveOccurred())
		})

		It("rejects invalid numeric values", func() {
			_, err := run("set", "embedding.dimensions", "not-a-number")
			Expect(err).To(HaveOccurred())

			_, err = run("set", "matcher.top_k", "0")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			_, err := run("set", "matcher.collection", "people")
			Expect(err).NotTo(HaveOccurred())

			out, err := run("get", "matcher.collection")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("people"))
		})

		It("shows defaults for unset keys", func() {
			out, err := run("get", "matcher.collection")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("test"))
		})

		It("reports keys without a value", func() {
			out, err := run("get", "vector_store.target")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("<not set>"))
		})

		It("masks credentials", func() {
			_, err := run("set", "embedding.api_key", "secret-key-1234")
			Expect(err).NotTo(HaveOccurred())

			out, err := run("get", "embedding.api_key")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("***********1234"))
		})

		It("rejects unknown keys", func() {
			_, err := run("get", "invalid_key")
			Expect(err).To(HaveOccurred())
		})

		It("requires exactly one argument", func() {
			_, err := run("get")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("list subcommand", func() {
		It("lists every key", func() {
			out, err := run("list")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring(`embedding.provider    = "gemini"`))
			Expect(out).To(ContainSubstring("vector_store.target   = <not set>"))
			Expect(out).To(ContainSubstring(`api.listen            = ":8090"`))
		})

		It("masks credentials", func() {
			_, err := run("set", "embedding.api_key", "secret-key-1234")
			Expect(err).NotTo(HaveOccurred())

			out, err := run("list")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring(`"***********1234"`))
		})

		It("rejects any arguments", func() {
			_, err := run("list", "extra")
			Expect(err).To(HaveOccurred())
		})
	})
})
