package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Node is one directory or entry in a rendered tree.
type Node struct {
	Name     string
	Dir      bool
	Children []*Node
}

// TreeOptions controls which entries Walk keeps.
type TreeOptions struct {
	// IncludeArchived keeps dot-prefixed files and directories.
	IncludeArchived bool

	// Extensions are the recognised entry suffixes. Files carrying none of
	// them are not entries and are left out. Empty keeps every file.
	Extensions []string
}

// Walk reads dir recursively into a tree. The .git directory is always
// skipped. Entry names have their extension stripped.
func Walk(dir string, opts TreeOptions) (*Node, error) {
	root := &Node{Name: filepath.Base(dir), Dir: true}
	if err := walk(dir, root, opts); err != nil {
		return nil, err
	}
	return root, nil
}

func walk(dir string, parent *Node, opts TreeOptions) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if name == GitDir {
			continue
		}
		if strings.HasPrefix(name, ".") && !opts.IncludeArchived {
			continue
		}

		if e.IsDir() {
			child := &Node{Name: name, Dir: true}
			if err := walk(filepath.Join(dir, name), child, opts); err != nil {
				return err
			}
			parent.Children = append(parent.Children, child)
			continue
		}

		if len(opts.Extensions) == 0 {
			parent.Children = append(parent.Children, &Node{Name: name})
			continue
		}
		if ext, ok := knownExtension(name, opts.Extensions); ok {
			parent.Children = append(parent.Children, &Node{Name: DisplayName(name, ext)})
		}
	}

	sort.SliceStable(parent.Children, func(i, j int) bool {
		return parent.Children[i].Name < parent.Children[j].Name
	})
	return nil
}

// Render writes the children of root below a header line using box
// drawing glyphs.
func Render(w io.Writer, header string, root *Node) error {
	return RenderStyled(w, header, root, nil)
}

// RenderStyled is Render with glyphs passed through style, e.g. to color
// them. A nil style leaves them plain.
func RenderStyled(w io.Writer, header string, root *Node, style func(...interface{}) string) error {
	if style == nil {
		style = fmt.Sprint
	}
	if _, err := fmt.Fprintf(w, "📂 %s\n", header); err != nil {
		return err
	}
	return render(w, root.Children, "", style)
}

func render(w io.Writer, nodes []*Node, prefix string, style func(...interface{}) string) error {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", style(prefix+branch), n.Name); err != nil {
			return err
		}
		if n.Dir {
			if err := render(w, n.Children, prefix+indent, style); err != nil {
				return err
			}
		}
	}
	return nil
}

// Header labels a listing: "vault" for the root, "vault/<sub>" otherwise.
func Header(sub string) string {
	sub = CleanName(sub)
	if sub == "" {
		return "vault"
	}
	return "vault/" + sub
}
