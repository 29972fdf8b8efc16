package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/verba-api/internal/importer"
	"github.com/phrazzld/verba-api/internal/service"
	"github.com/phrazzld/verba-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportWords(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	vocab := app.vocabulary.(*stubVocabulary)
	vocab.summary = &service.ImportSummary{
		Created:  1,
		Errors:   1,
		Failures: []service.ImportFailure{{Index: 1, Error: "Invalid translations: cannot be empty"}},
	}

	path := writeTempCSV(t, "word,translations\nchat,cat\nchien,\n,orphan\n")
	opts := &importOptions{username: "alice", Options: importer.Options{Path: path}}

	var out bytes.Buffer
	require.NoError(t, importWords(context.Background(), app, opts, &out))

	owner := app.userService.(*stubUsers).user.ID
	assert.Equal(t, owner, vocab.owner)
	require.Len(t, vocab.imported, 2)
	assert.Equal(t, "chat", vocab.imported[0].Word)

	report := out.String()
	assert.Contains(t, report, "created: 1\n")
	assert.Contains(t, report, "errors:  2\n")
	assert.Contains(t, report, "row 4: word is empty\n")
	assert.Contains(t, report, "row 3: Invalid translations: cannot be empty\n")
}

func TestImportWords_UnknownUser(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	opts := &importOptions{username: "bob", Options: importer.Options{Path: "unused.csv"}}

	err := importWords(context.Background(), app, opts, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrUserNotFound))
}

func TestImportConjugations(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	path := writeTempCSV(t, "verb,person,tense,conjugation,irregular,pronominal,group\n"+
		"être,je,présent,suis,oui,,3\n"+
		"parler,tu,présent,parles,no,no,one\n")
	opts := &importOptions{username: "alice", Options: importer.Options{Path: path}}

	var out bytes.Buffer
	require.NoError(t, importConjugations(context.Background(), app, opts, &out))

	conj := app.conjugations.(*stubConjugations)
	require.Len(t, conj.imported, 1)
	assert.True(t, conj.imported[0].Irregular)
	assert.Contains(t, out.String(), "created: 1\n")
	assert.Contains(t, out.String(), "row 3: group:")
}

func TestImportWords_NothingParsed(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	path := writeTempCSV(t, "word\n")
	opts := &importOptions{username: "alice", Options: importer.Options{Path: path}}

	var out bytes.Buffer
	require.NoError(t, importWords(context.Background(), app, opts, &out))

	assert.Nil(t, app.vocabulary.(*stubVocabulary).imported)
	assert.Contains(t, out.String(), "created: 0\n")
}
