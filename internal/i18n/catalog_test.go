package i18n_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtruck/internal/i18n"
)

func TestEmbeddedCatalogsComplete(t *testing.T) {
	b, err := i18n.LoadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "hi"}, b.Locales())
	assert.Equal(t, "English", b.Name("en"))
	assert.Equal(t, "हिन्दी", b.Name("hi"))
	assert.Empty(t, b.MissingKeys("hi"), "hi must translate every key")
}

func TestPrinterFormats(t *testing.T) {
	b, err := i18n.LoadEmbedded()
	require.NoError(t, err)

	en := b.Printer("en")
	assert.Equal(t, "Driver", en.T("role.driver"))
	assert.Equal(t, "Vehicle MP09AB1234 added.", en.T("vehicle.added", "MP09AB1234"))
	assert.Equal(t, "Vehicle 7 now operates in 2 states.", en.T("vehicle.routes", "7", 2))
	assert.Equal(t, "no.such.key", en.T("no.such.key"))

	hi := b.Printer("hi")
	assert.Equal(t, "hi", hi.Locale())
	assert.Equal(t, "ड्राइवर", hi.T("role.driver"))
	assert.Equal(t, "लोड 12 पर 1500 की बोली लगाई गई।", hi.T("bid.placed", "1500", "12"))

	unknown := b.Printer("fr")
	assert.Equal(t, "en", unknown.Locale())
}

func TestMatch(t *testing.T) {
	b, err := i18n.LoadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, "hi", b.Match("", "hi"))
	assert.Equal(t, "hi", b.Match("hi_IN.UTF-8"))
	assert.Equal(t, "en", b.Match("C", "POSIX"))
	assert.Equal(t, "en", b.Match("fr"))
	assert.Equal(t, "en", b.Match("en", "hi"))
	assert.Equal(t, "en", b.Match())
}

func TestFallbackToBase(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en/core.yaml": {Data: []byte("locale: en\nnamespace: core\nmessages:\n  greet: \"Hello %s\"\n  bye: \"Bye\"\n")},
		"locales/hi/core.yaml": {Data: []byte("locale: hi\nnamespace: core\nmessages:\n  greet: \"नमस्ते %s\"\n")},
	}
	b, err := i18n.LoadFromFS(fsys)
	require.NoError(t, err)

	p := b.Printer("hi")
	assert.Equal(t, "नमस्ते Asha", p.T("greet", "Asha"))
	assert.Equal(t, "Bye", p.T("bye"))
	assert.Equal(t, []string{"bye"}, b.MissingKeys("hi"))
}

func TestLoadFromFS_Errors(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"empty": {},
		"no base": {
			"locales/hi/core.yaml": {Data: []byte("locale: hi\nmessages:\n  a: b\n")},
		},
		"locale mismatch": {
			"locales/en/core.yaml": {Data: []byte("locale: hi\nmessages:\n  a: b\n")},
		},
		"duplicate key": {
			"locales/en/a.yaml": {Data: []byte("locale: en\nmessages:\n  a: b\n")},
			"locales/en/b.yaml": {Data: []byte("locale: en\nmessages:\n  a: c\n")},
		},
		"no messages": {
			"locales/en/core.yaml": {Data: []byte("locale: en\n")},
		},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := i18n.LoadFromFS(fsys)
			assert.Error(t, err)
		})
	}
}
