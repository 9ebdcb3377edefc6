package testutils

import (
	"bytes"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// ExecuteCommand runs child under a root command carrying the persistent
// flags of the namematch CLI, feeding it in, and returns what it printed.
func ExecuteCommand(child *cobra.Command, in io.Reader, args ...string) (string, error) {
	root := &cobra.Command{Use: "namematch", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().BoolP("debug", "d", false, "")
	root.PersistentFlags().String("config-dir", "", "")
	root.AddCommand(child)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if in != nil {
		root.SetIn(in)
	}
	root.SetArgs(append([]string{child.Name()}, args...))

	err := root.Execute()
	return out.String(), err
}

// LocalStoreArgs returns the flags selecting an Ollama-compatible embedder at
// embeddingURL and an on-disk index under dir, which also serves as the
// config directory.
func LocalStoreArgs(embeddingURL, dir string) []string {
	return []string{
		"--config-dir", dir,
		"--embedding-provider", "ollama",
		"--embedding-target", embeddingURL,
		"--embedding-model", "mock",
		"--embedding-dimensions", strconv.Itoa(MockDimensions),
		"--vector-store-provider", "sqlite",
		"--vector-store-path", dir,
	}
}
