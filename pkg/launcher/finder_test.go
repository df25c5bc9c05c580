package launcher_test

import (
	"testing"

	g "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"portablesource/pkg/launcher"
)

func repoWith(files ...string) afero.Fs {
	fs := afero.NewMemMapFs()
	for _, f := range files {
		_ = afero.WriteFile(fs, "/r/"+f, []byte("print()"), 0o644)
	}

	return fs
}

func TestFindMainFile(t *testing.T) {
	g.RegisterTestingT(t)

	tests := []struct {
		name      string
		files     []string
		suggested string
		url       string
		want      string
		found     bool
	}{
		{name: "suggested file wins", files: []string{"app.py", "facefusion.py"}, suggested: "facefusion.py", want: "facefusion.py", found: true},
		{name: "missing suggestion ignored", files: []string{"app.py"}, suggested: "gone.py", want: "app.py", found: true},
		{name: "common names in order", files: []string{"main.py", "webui.py"}, want: "webui.py", found: true},
		{name: "single candidate", files: []string{"setup.py", "test_x.py", "inference.py"}, want: "inference.py", found: true},
		{name: "keyword candidate", files: []string{"demo_runner.py", "utils.py"}, want: "demo_runner.py", found: true},
		{name: "install scripts skipped", files: []string{"install_deps.py", "helpers.py", "models.py"}, found: false},
		{name: "repository name", files: []string{"deepfake.py", "utils.py"}, url: "https://github.com/user/deepfake.git", want: "deepfake.py", found: true},
		{name: "ssh url", files: []string{"tool.py", "utils.py"}, url: "git@github.com:user/tool.git", want: "tool.py", found: true},
		{name: "nothing", files: []string{"README.md"}, found: false},
	}

	for _, tc := range tests {
		got, ok := launcher.FindMainFile(repoWith(tc.files...), "/r", tc.suggested, tc.url)
		g.Expect(ok).To(g.Equal(tc.found), tc.name)
		g.Expect(got).To(g.Equal(tc.want), tc.name)
	}
}

func TestFindEntryFallsBackToScriptModule(t *testing.T) {
	g.RegisterTestingT(t)

	fs := repoWith("README.md")
	_ = afero.WriteFile(fs, "/r/pyproject.toml", []byte(`
[project]
name = "demo"

[project.scripts]
demo-cli = "demo.cli:main"
demo-gradio-infer = "demo.gradio_infer:main"
`), 0o644)

	entry := launcher.FindEntry(fs, "/r", "", "")
	g.Expect(entry).To(g.Equal(launcher.Entry{Module: "demo.gradio_infer"}))

	g.Expect(launcher.FindEntry(repoWith("README.md"), "/r", "", "").Empty()).To(g.BeTrue())
}
