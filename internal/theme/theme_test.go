package theme

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"prognocore.com/web/internal/prefs"
)

func TestInitializeDefaults(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		seed map[string]string
		want Theme
	}{
		"absent":  {seed: nil, want: Dark},
		"light":   {seed: map[string]string{prefs.KeyTheme: "light"}, want: Light},
		"dark":    {seed: map[string]string{prefs.KeyTheme: "dark"}, want: Dark},
		"garbage": {seed: map[string]string{prefs.KeyTheme: "Solarized"}, want: Dark},
		"case":    {seed: map[string]string{prefs.KeyTheme: "LIGHT"}, want: Dark},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := New(prefs.NewMemoryStore(tc.seed))
			require.Equal(t, tc.want, c.Initialize())
			require.Equal(t, tc.want, c.Current())
			require.Equal(t, string(tc.want), c.Attribute())
		})
	}
}

func TestToggleIsInvolutionAndPersists(t *testing.T) {
	t.Parallel()

	store := prefs.NewMemoryStore(nil)
	c := New(store)
	start := c.Initialize()

	first := c.Toggle()
	require.Equal(t, start.Opposite(), first)
	v, ok := store.Get(prefs.KeyTheme)
	require.True(t, ok)
	require.Equal(t, string(c.Current()), v)

	second := c.Toggle()
	require.Equal(t, start, second)
	v, _ = store.Get(prefs.KeyTheme)
	require.Equal(t, string(c.Current()), v)
}

func TestLogoContrastsWithTheme(t *testing.T) {
	t.Parallel()

	c := New(prefs.NewMemoryStore(map[string]string{prefs.KeyTheme: "light"}))
	c.Initialize()
	require.Equal(t, LogoOnLight, c.Logo())
	c.Toggle()
	require.Equal(t, LogoOnDark, c.Logo())
}

func TestNilStoreStillWorks(t *testing.T) {
	t.Parallel()

	c := New(nil)
	require.Equal(t, Dark, c.Initialize())
	require.Equal(t, Light, c.Toggle())
}

func TestFromContextWithoutProviderPanics(t *testing.T) {
	t.Parallel()

	require.PanicsWithValue(t, ErrNoController, func() {
		FromContext(context.Background())
	})
}

func TestProvideReadsCookie(t *testing.T) {
	t.Parallel()

	var got Theme
	h := Provide(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context()).Current()
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: prefs.KeyTheme, Value: "light"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, Light, got)
}
