package vault

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildVault(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range []string{
		"mail/example.com.rage",
		"mail/.old.com.rage",
		"bank.age",
		"notes.txt",
		".archived/secret.rage",
		".git/HEAD",
		".git/objects/ab/cdef",
	} {
		touch(t, filepath.Join(root, filepath.FromSlash(p)))
	}
	return root
}

func TestRenderTree(t *testing.T) {
	root := buildVault(t)

	node, err := Walk(root, TreeOptions{Extensions: exts})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Header(""), node))

	want := "📂 vault\n" +
		"├── bank\n" +
		"└── mail\n" +
		"    └── example.com\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderTreeIncludeArchived(t *testing.T) {
	root := buildVault(t)

	node, err := Walk(root, TreeOptions{Extensions: exts, IncludeArchived: true})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Header("/"), node))

	want := "📂 vault\n" +
		"├── .archived\n" +
		"│   └── secret\n" +
		"├── bank\n" +
		"└── mail\n" +
		"    ├── .old.com\n" +
		"    └── example.com\n"
	assert.Equal(t, want, buf.String())
	assert.NotContains(t, buf.String(), ".git")
}

func TestWalkWithoutExtensionsKeepsEveryFile(t *testing.T) {
	root := buildVault(t)

	node, err := Walk(root, TreeOptions{})
	require.NoError(t, err)

	var names []string
	for _, c := range node.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"bank.age", "mail", "notes.txt"}, names)
}

func TestWalkMissingDirectory(t *testing.T) {
	_, err := Walk(filepath.Join(t.TempDir(), "missing"), TreeOptions{})
	assert.Error(t, err)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "vault", Header(""))
	assert.Equal(t, "vault/mail", Header("mail/"))
}

func TestWalkEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0700))

	node, err := Walk(root, TreeOptions{Extensions: exts})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "vault", node))
	assert.Equal(t, "📂 vault\n└── empty\n", buf.String())
}

func TestRenderStyled(t *testing.T) {
	root := &Node{Name: "vault", Dir: true, Children: []*Node{
		{Name: "mail", Dir: true, Children: []*Node{{Name: "example.com"}}},
		{Name: "wifi"},
	}}

	var buf bytes.Buffer
	style := func(a ...interface{}) string { return "<" + a[0].(string) + ">" }
	require.NoError(t, RenderStyled(&buf, "vault", root, style))
	assert.Equal(t, "📂 vault\n<├── >mail\n<│   └── >example.com\n<└── >wifi\n", buf.String())
}
