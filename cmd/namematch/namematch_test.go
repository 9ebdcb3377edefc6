package namematchcmder_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	namematchcmder "github.com/papercomputeco/namematch/cmd/namematch"
)

var _ = Describe("NewNamematchCmd", func() {
	It("registers every subcommand", func() {
		cmd := namematchcmder.NewNamematchCmd()

		var names []string
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("init", "config", "match", "add", "delete", "chat", "serve", "version"))
	})

	It("carries the global flags", func() {
		cmd := namematchcmder.NewNamematchCmd()
		Expect(cmd.PersistentFlags().ShorthandLookup("d")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})

	It("prints the version", func() {
		cmd := namematchcmder.NewNamematchCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"version"})

		Expect(cmd.Execute()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Version: dev"))
		Expect(out.String()).To(ContainSubstring("Built at:"))
	})
})
