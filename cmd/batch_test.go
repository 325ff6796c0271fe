package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/store"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestCollectDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "b.txt", "zwei")
	writeDoc(t, dir, "a.txt", "eins")
	writeDoc(t, dir, "c.pdf", "ignoriert")

	files, err := collectDocuments(dir)
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", filepath.Base(files[0]))
	assert.Equal(t, "b.txt", filepath.Base(files[1]))
}

func TestCollectDocuments_EmptyDir(t *testing.T) {
	files, err := collectDocuments(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestProcessBatch(t *testing.T) {
	env := newTestEnv(t)

	dir := t.TempDir()
	writeDoc(t, dir, "vertrag1.txt", testContractText)
	writeDoc(t, dir, "vertrag2.txt", testContractText)
	writeDoc(t, dir, "kaputt.txt", "zu kurz") // fails validation, must not abort the batch

	files, err := collectDocuments(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	err = processBatch(context.Background(), env, files, 0, 2, 100)
	require.NoError(t, err)

	runs, err := env.Store.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 3)

	byStatus := make(map[model.RunStatus]int)
	for _, r := range runs {
		byStatus[r.Status]++
	}
	assert.Equal(t, 2, byStatus[model.RunStatusComplete])
	assert.Equal(t, 1, byStatus[model.RunStatusFailed])
}

func TestProcessBatch_Limit(t *testing.T) {
	env := newTestEnv(t)

	dir := t.TempDir()
	writeDoc(t, dir, "vertrag1.txt", testContractText)
	writeDoc(t, dir, "vertrag2.txt", testContractText)

	files, err := collectDocuments(dir)
	require.NoError(t, err)

	require.NoError(t, processBatch(context.Background(), env, files, 1, 1, 100))

	runs, err := env.Store.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestProcessBatch_NoFiles(t *testing.T) {
	assert.NoError(t, processBatch(context.Background(), newTestEnv(t), nil, 0, 1, 1))
}
