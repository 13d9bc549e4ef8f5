package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowpulse-docparse/internal/domain"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_ParseText(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	path := writeTemp(t, "letter.txt", "Dear Ms Smith,\nThank you for your order.\nSincerely,\nBob")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"parse", path}, &out))

	var doc domain.ParsedDocument
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "letter.txt", doc.FileName)
	assert.Equal(t, domain.DocumentTypeLetter, doc.ClassifiedType)
}

func TestRun_Compare(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	a := writeTemp(t, "a.txt", "Total due $1,250.00 for Acme Corp")
	b := writeTemp(t, "b.txt", "Acme Corp paid $1,250.00")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"compare", a, b}, &out))

	var cmp domain.Comparison
	require.NoError(t, json.Unmarshal(out.Bytes(), &cmp))
	assert.NotEmpty(t, cmp.Summary)
	assert.Contains(t, cmp.Similarities, "Shared entities: Acme Corp")
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(context.Background(), []string{"parse"}, &out))
	assert.Error(t, run(context.Background(), []string{"frobnicate", "x"}, &out))
	assert.Error(t, run(context.Background(), []string{"compare", "a"}, &out))
	assert.Error(t, run(context.Background(), []string{"parse", filepath.Join(t.TempDir(), "missing.txt")}, &out))
}
