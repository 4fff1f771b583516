package privacy

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

func newTestMasker(t *testing.T, opts Options) *Masker {
	t.Helper()
	m, err := NewMasker(opts)
	require.NoError(t, err)
	return m
}

func TestLoadCurated(t *testing.T) {
	all, err := LoadCurated(nil)
	require.NoError(t, err)
	assert.Contains(t, all.First, "john")
	assert.Contains(t, all.Surname, "smith")
	assert.Contains(t, all.Surname, "wang")

	english, err := LoadCurated([]string{"English"})
	require.NoError(t, err)
	assert.Contains(t, english.First, "sarah")
	assert.NotContains(t, english.Surname, "wang")
}

func TestFilterCommonWords(t *testing.T) {
	set := newNameSet()
	set.First["grace"] = struct{}{}
	set.First["jo"] = struct{}{}
	set.First["olivia"] = struct{}{}
	set.Surname["brown"] = struct{}{}

	assert.Equal(t, 3, set.FilterCommonWords())
	assert.Equal(t, map[string]struct{}{"olivia": {}}, set.First)
	assert.Empty(t, set.Surname)
}

func TestMaskNames(t *testing.T) {
	m := newTestMasker(t, Options{ExcludeCommonWords: true})

	result := m.Mask("Yesterday John met Sarah Smith at the park.", "meeting.wav")

	assert.Equal(t, "Yesterday [NAME] met [NAME] [SURNAME] at the park.", result.Text)
	require.Len(t, result.Replacements, 3)
	assert.Equal(t, Replacement{
		Order:           3,
		Original:        "Smith",
		Replacement:     "[SURNAME]",
		ContextSentence: "Yesterday John met Sarah Smith at the park.",
		Filename:        "meeting.wav",
	}, result.Replacements[2])
}

func TestMaskRequiresCapitalization(t *testing.T) {
	m := newTestMasker(t, Options{ExcludeCommonWords: true})

	result := m.Mask("john went home with sarah", "a.wav")
	assert.Equal(t, "john went home with sarah", result.Text)
	assert.Empty(t, result.Replacements)
}

func TestMaskTitlesAndPunctuation(t *testing.T) {
	m := newTestMasker(t, Options{ExcludeCommonWords: true})

	result := m.Mask("We spoke with Dr. Garcia yesterday. I saw (Sarah's) car, John!", "a.wav")
	assert.Equal(t, "We spoke with [TITLE]. [SURNAME] yesterday. I saw ([NAME]'s) car, [NAME]!", result.Text)
	require.Len(t, result.Replacements, 4)
	assert.Equal(t, "Dr.", result.Replacements[0].Original)
	assert.Equal(t, "We spoke with Dr.", result.Replacements[0].ContextSentence)
	assert.Equal(t, "I saw (Sarah's) car, John!", result.Replacements[3].ContextSentence)

	// 称谓后不是名字时保留
	result = m.Mask("Thanks Mr Table", "a.wav")
	assert.Equal(t, "Thanks Mr Table", result.Text)
}

func TestMaskExcludedNames(t *testing.T) {
	dir := t.TempDir()
	excludeFile := filepath.Join(dir, "exclude.txt")
	require.NoError(t, os.WriteFile(excludeFile, []byte("# public figures\nSarah\n"), 0644))

	m := newTestMasker(t, Options{
		ExcludeCommonWords: true,
		ExcludedNames:      []string{"JOHN"},
		ExcludeNamesFile:   excludeFile,
	})

	result := m.Mask("John and Sarah met Olivia.", "a.wav")
	assert.Equal(t, "John and Sarah met [NAME].", result.Text)
}

func TestMaskCommonWordFilter(t *testing.T) {
	filtered := newTestMasker(t, Options{ExcludeCommonWords: true})
	assert.Equal(t, "The Brown dog", filtered.Mask("The Brown dog", "a.wav").Text)

	unfiltered := newTestMasker(t, Options{ExcludeCommonWords: false})
	assert.Equal(t, "The [SURNAME] dog", unfiltered.Mask("The Brown dog", "a.wav").Text)
}

func TestMaskCustomNameFiles(t *testing.T) {
	dir := t.TempDir()
	namesFile := filepath.Join(dir, "names.txt")
	surnamesFile := filepath.Join(dir, "surnames.txt")
	require.NoError(t, os.WriteFile(namesFile, []byte("Zorblax\n"), 0644))
	require.NoError(t, os.WriteFile(surnamesFile, []byte("Quibble\n"), 0644))

	m := newTestMasker(t, Options{NamesFile: namesFile, SurnamesFile: surnamesFile})
	result := m.Mask("Zorblax Quibble met John", "a.wav")
	assert.Equal(t, "[NAME] [SURNAME] met John", result.Text)

	_, err := NewMasker(Options{NamesFile: filepath.Join(dir, "missing.txt")})
	assert.Error(t, err)
}

func TestMaskPhonetic(t *testing.T) {
	exact := newTestMasker(t, Options{ExcludeCommonWords: true})
	assert.Equal(t, "Jonathon called", exact.Mask("Jonathon called", "a.wav").Text)

	phonetic := newTestMasker(t, Options{ExcludeCommonWords: true, Phonetic: true})
	assert.Equal(t, "[NAME] called", phonetic.Mask("Jonathon called", "a.wav").Text)
	// 常见单词不参与读音匹配
	assert.Equal(t, "Table talk", phonetic.Mask("Table talk", "a.wav").Text)
}

func TestOptionsFromConfig(t *testing.T) {
	config := models.NewDefaultConfig()
	config.ExcludedNames = []string{"Paris"}
	config.PhoneticNameMatch = true

	opts := OptionsFromConfig(config)
	assert.Equal(t, []string{"Paris"}, opts.ExcludedNames)
	assert.True(t, opts.Phonetic)
	assert.True(t, opts.ExcludeCommonWords)
}

func TestWriteReplacementLog(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteReplacementLog(dir, "meeting.wav", nil)
	assert.NoError(t, err)
	assert.Empty(t, path)

	path, err = WriteReplacementLog(filepath.Join(dir, "logs"), "meeting.wav", []Replacement{
		{Order: 1, Original: "John,", Replacement: "[NAME],", ContextSentence: "Hi John, welcome.", Filename: "meeting.wav"},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "logs", "name_replacements_meeting.csv"), path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "filename,order,original,replacement,context_sentence", strings.Join(records[0], ","))
	assert.Equal(t, []string{"meeting.wav", "1", "John,", "[NAME],", "Hi John, welcome."}, records[1])
}
