package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modifiedPatch = `diff --git a/main.go b/main.go
index 1234567..89abcde 100644
--- a/main.go
+++ b/main.go
@@ -1,4 +1,5 @@
 package main

-func old() {}
+func renamed() {}
+func extra() {}
`

const addedPatch = `diff --git a/new.txt b/new.txt
new file mode 100644
index 0000000..257cc56
--- /dev/null
+++ b/new.txt
@@ -0,0 +1 @@
+hello
`

const deletedPatch = `diff --git a/old.txt b/old.txt
deleted file mode 100644
index 257cc56..0000000
--- a/old.txt
+++ /dev/null
@@ -1 +0,0 @@
-goodbye
`

const renamedPatch = `diff --git a/pkg/util.go b/internal/util.go
similarity index 95%
rename from pkg/util.go
rename to internal/util.go
index 1234567..89abcde 100644
--- a/pkg/util.go
+++ b/internal/util.go
@@ -1,3 +1,3 @@
-package pkg
+package internal

 func Util() {}
`

const binaryPatch = `diff --git a/logo.png b/logo.png
new file mode 100644
index 0000000..89abcde
Binary files /dev/null and b/logo.png differ
`

func TestParsePatch(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		deltas := ParsePatch("")
		assert.Empty(t, deltas)
		assert.NotNil(t, deltas)
	})

	t.Run("modified file", func(t *testing.T) {
		deltas := ParsePatch(modifiedPatch)
		require.Len(t, deltas, 1)

		d := deltas[0]
		assert.Equal(t, "main.go", d.Filename)
		assert.Equal(t, DeltaModified, d.Status)
		assert.Equal(t, 2, d.Additions)
		assert.Equal(t, 1, d.Deletions)
		assert.Empty(t, d.OldPath)
		assert.Contains(t, d.Patch, "func renamed() {}")
	})

	t.Run("added file", func(t *testing.T) {
		deltas := ParsePatch(addedPatch)
		require.Len(t, deltas, 1)

		d := deltas[0]
		assert.Equal(t, "new.txt", d.Filename)
		assert.Equal(t, DeltaAdded, d.Status)
		assert.Equal(t, 1, d.Additions)
		assert.Equal(t, 0, d.Deletions)
	})

	t.Run("deleted file", func(t *testing.T) {
		deltas := ParsePatch(deletedPatch)
		require.Len(t, deltas, 1)

		d := deltas[0]
		assert.Equal(t, "old.txt", d.Filename)
		assert.Equal(t, DeltaDeleted, d.Status)
		assert.Equal(t, 0, d.Additions)
		assert.Equal(t, 1, d.Deletions)
	})

	t.Run("renamed file keeps both paths", func(t *testing.T) {
		deltas := ParsePatch(renamedPatch)
		require.Len(t, deltas, 1)

		d := deltas[0]
		assert.Equal(t, DeltaRenamed, d.Status)
		assert.Equal(t, "internal/util.go", d.Filename)
		assert.Equal(t, "pkg/util.go", d.OldPath)
		assert.Equal(t, 1, d.Additions)
		assert.Equal(t, 1, d.Deletions)
	})

	t.Run("binary file has zero counts", func(t *testing.T) {
		deltas := ParsePatch(binaryPatch)
		require.Len(t, deltas, 1)

		d := deltas[0]
		assert.Equal(t, "logo.png", d.Filename)
		assert.Equal(t, DeltaAdded, d.Status)
		assert.Equal(t, 0, d.Additions)
		assert.Equal(t, 0, d.Deletions)
	})

	t.Run("multi-file patch", func(t *testing.T) {
		deltas := ParsePatch(modifiedPatch + addedPatch + deletedPatch)
		require.Len(t, deltas, 3)
		assert.Equal(t, "main.go", deltas[0].Filename)
		assert.Equal(t, "new.txt", deltas[1].Filename)
		assert.Equal(t, "old.txt", deltas[2].Filename)
	})
}

func TestSummarize(t *testing.T) {
	t.Run("aggregates totals", func(t *testing.T) {
		deltas := []FileDelta{
			{Filename: "a.go", Additions: 10, Deletions: 2},
			{Filename: "b.go", Additions: 3, Deletions: 7},
		}

		cmp := Summarize("abc1234", "def5678", deltas)
		assert.Equal(t, "abc1234", cmp.FromCommit)
		assert.Equal(t, "def5678", cmp.ToCommit)
		assert.Equal(t, 13, cmp.TotalAdditions)
		assert.Equal(t, 9, cmp.TotalDeletions)
		assert.Equal(t, "2 files changed, +13/-9", cmp.Summary)
	})

	t.Run("identical commits", func(t *testing.T) {
		cmp := Summarize("abc1234", "abc1234", nil)
		assert.NotNil(t, cmp.Files)
		assert.Empty(t, cmp.Files)
		assert.Equal(t, "0 files changed, +0/-0", cmp.Summary)
	})
}
