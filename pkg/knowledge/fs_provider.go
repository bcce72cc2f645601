package knowledge

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// FSProvider reads markdown documents from a filesystem. Document ids are
// "kb/<file name>".
type FSProvider struct {
	fsys   fs.FS
	prefix string
}

var _ Provider = (*FSProvider)(nil)

func NewFSProvider(fsys fs.FS) *FSProvider {
	return &FSProvider{fsys: fsys, prefix: "kb/"}
}

func (p *FSProvider) ListDocuments(ctx context.Context) ([]Document, error) {
	entries, err := fs.ReadDir(p.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(p.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		docs = append(docs, Document{
			ID:   p.prefix + path.Base(name),
			Text: string(data),
		})
	}

	return docs, nil
}
