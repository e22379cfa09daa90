package seo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMeta(t *testing.T) {
	m := New("https://prognocore.com/", "/services/erp-integration", "ERP Integration", "", "/assets/img/logo-dark.svg")
	require.Equal(t, "ERP Integration | PrognoCore", m.Title)
	require.Equal(t, DefaultDescription, m.Description)
	require.Equal(t, "https://prognocore.com/services/erp-integration", m.Canonical)
	require.Equal(t, "https://prognocore.com/assets/img/logo-dark.svg", m.OG.Image)

	home := New("https://prognocore.com", "/", "", "desc", "https://images.pexels.com/x.jpg")
	require.Equal(t, SiteName, home.Title)
	require.Equal(t, "https://prognocore.com/", home.Canonical)
	require.Equal(t, "https://images.pexels.com/x.jpg", home.Twitter.Image)
}

func TestAbsoluteWithoutBase(t *testing.T) {
	if got := Absolute("", "/about"); got != "/about" {
		t.Fatalf("Absolute without base = %q", got)
	}
}

func TestBreadcrumbList(t *testing.T) {
	raw := JSON(BreadcrumbList([]BreadcrumbItem{
		{Name: "Home", Item: "https://prognocore.com/"},
		{Name: "Industries", Item: "https://prognocore.com/industries"},
	}))
	var decoded struct {
		Items []struct {
			Position int    `json:"position"`
			Name     string `json:"name"`
		} `json:"itemListElement"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded.Items, 2)
	require.Equal(t, 2, decoded.Items[1].Position)
}

func TestScriptEscapesMarkup(t *testing.T) {
	out := string(Script(Organization("</script><b>", "", "", nil)))
	require.False(t, strings.Contains(out, "</script>"))
}
