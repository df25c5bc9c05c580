package flags_test

import (
	"testing"

	g "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"portablesource/pkg/flags"
)

func TestBindCommandToViper(t *testing.T) {
	g.RegisterTestingT(t)
	t.Cleanup(viper.Reset)

	var installPath, serverURL string

	cmd := &cobra.Command{Use: "test"}
	cmd.PersistentFlags().StringVar(&installPath, "install-path", "~/portablesource", "")
	cmd.Flags().StringVar(&serverURL, "server-url", "https://portables.dev", "")

	viper.Set("install-path", "/srv/ps")
	viper.Set("server-url", "http://localhost:8080")

	g.Expect(cmd.Flags().Set("server-url", "http://flag")).To(g.Succeed())

	flags.BindCommandToViper(cmd)

	g.Expect(installPath).To(g.Equal("/srv/ps"))
	g.Expect(serverURL).To(g.Equal("http://flag"))
}
