package translate

import (
	"context"
	"fmt"
	"testing"

	"cloud.google.com/go/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type fakeBackend struct {
	inputs [][]string
	out    []translate.Translation
	err    error
	closed bool
}

func (f *fakeBackend) Translate(_ context.Context, inputs []string, target language.Tag, _ *translate.Options) ([]translate.Translation, error) {
	f.inputs = append(f.inputs, inputs)
	return f.out, f.err
}

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func TestNewTranslatorWithoutKey(t *testing.T) {
	tr, err := NewTranslator(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.False(t, tr.Enabled())
	assert.NoError(t, tr.Close())
}

func TestNilTranslatorEchoes(t *testing.T) {
	var tr *Translator
	res, err := tr.ToEnglish(context.Background(), []string{"Ina kwana", ""})
	require.NoError(t, err)
	assert.Equal(t, "Ina kwana", res[0].Text)
	assert.False(t, res[0].Translated)
}

func TestToEnglishSkipsBlankAndEnglish(t *testing.T) {
	fb := &fakeBackend{out: []translate.Translation{
		{Text: "My payment has not arrived", Source: language.MustParse("ha")},
		{Text: "Seeds were late", Source: language.English},
	}}
	tr := &Translator{client: fb, target: language.English}

	res, err := tr.ToEnglish(context.Background(), []string{"Kudina bai iso ba", "  ", "Seeds were late"})
	require.NoError(t, err)

	require.Len(t, fb.inputs, 1)
	assert.Equal(t, []string{"Kudina bai iso ba", "Seeds were late"}, fb.inputs[0])

	assert.True(t, res[0].Translated)
	assert.Equal(t, "My payment has not arrived", res[0].Text)
	assert.Equal(t, "ha", res[0].Source)
	assert.False(t, res[1].Translated)
	assert.Equal(t, "  ", res[1].Text)
	assert.False(t, res[2].Translated)
	assert.Equal(t, "en", res[2].Source)
}

func TestToEnglishErrorKeepsOriginals(t *testing.T) {
	fb := &fakeBackend{err: fmt.Errorf("quota exceeded")}
	tr := &Translator{client: fb, target: language.English}

	res, err := tr.ToEnglish(context.Background(), []string{"Ba a biya ni ba"})
	require.Error(t, err)
	assert.Equal(t, "Ba a biya ni ba", res[0].Text)
}

func TestToEnglishMismatchedResults(t *testing.T) {
	fb := &fakeBackend{out: nil}
	tr := &Translator{client: fb, target: language.English}

	_, err := tr.ToEnglish(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestCloseReleasesClient(t *testing.T) {
	fb := &fakeBackend{}
	tr := &Translator{client: fb, target: language.English}
	require.NoError(t, tr.Close())
	assert.True(t, fb.closed)
}
