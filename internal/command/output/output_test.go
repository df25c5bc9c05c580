package output_test

import (
	"bytes"
	"testing"

	g "github.com/onsi/gomega"

	"portablesource/internal/command/output"
	perrors "portablesource/pkg/errors"
	"portablesource/pkg/models"
)

func TestWrite(t *testing.T) {
	g.RegisterTestingT(t)

	status := models.ToolStatus{Name: "git", Path: "/usr/bin/git", Found: true}

	var buf bytes.Buffer
	g.Expect(output.Write(&buf, output.FormatYAML, status)).To(g.Succeed())
	g.Expect(buf.String()).To(g.Equal("name: git\npath: /usr/bin/git\nfound: true\n"))

	buf.Reset()
	g.Expect(output.Write(&buf, output.FormatJSON, status)).To(g.Succeed())
	g.Expect(buf.String()).To(g.Equal("{\n  \"name\": \"git\",\n  \"path\": \"/usr/bin/git\",\n  \"found\": true\n}\n"))

	g.Expect(output.Write(&buf, "toml", status)).To(g.MatchError(perrors.ErrUnsupportedOutputFormat))
}
