package knowledge

import (
	"context"
	"testing"
	"testing/fstest"

	"guarded-chat-be/kb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSProvider_ListDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"b.md":        {Data: []byte("second")},
		"a.md":        {Data: []byte("first")},
		"notes.txt":   {Data: []byte("ignored")},
		"nested/c.md": {Data: []byte("ignored too")},
	}

	docs, err := NewFSProvider(fsys).ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, Document{ID: "kb/a.md", Text: "first"}, docs[0])
	assert.Equal(t, Document{ID: "kb/b.md", Text: "second"}, docs[1])
}

func TestFSProvider_EmbeddedKnowledgeBase(t *testing.T) {
	docs, err := NewFSProvider(kb.FS).ListDocuments(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.ElementsMatch(t, []string{"kb/contact.md", "kb/faq.md", "kb/policies.md", "kb/pricing.md"}, ids)
}

func TestSnapshot(t *testing.T) {
	t.Run("empty corpus is an error", func(t *testing.T) {
		_, err := Snapshot(context.Background(), NewStaticProvider(nil))
		assert.ErrorIs(t, err, ErrEmptyCorpus)
	})

	t.Run("snapshot is detached from the source slice", func(t *testing.T) {
		src := []Document{{ID: "kb/x.md", Text: "x"}}
		snap, err := Snapshot(context.Background(), NewStaticProvider(src))
		require.NoError(t, err)

		src[0].Text = "changed"
		docs, err := snap.ListDocuments(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "x", docs[0].Text)
	})
}
