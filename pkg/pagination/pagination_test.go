package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func parseFor(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParseDefaults(t *testing.T) {
	p := parseFor(t, "")
	if p.Page != DefaultPage || p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("defaults = %+v", p)
	}
}

func TestParseExplicit(t *testing.T) {
	p := parseFor(t, "page=3&limit=25")
	if p.Page != 3 || p.Limit != 25 {
		t.Errorf("parsed = %+v", p)
	}
	if p.Offset != 50 {
		t.Errorf("offset = %d, want 50", p.Offset)
	}
}

func TestParseClampsLimit(t *testing.T) {
	p := parseFor(t, "limit=9999")
	if p.Limit != MaxLimit {
		t.Errorf("limit = %d, want %d", p.Limit, MaxLimit)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	p := parseFor(t, "page=-4&limit=abc")
	if p.Page != DefaultPage || p.Limit != DefaultLimit {
		t.Errorf("parsed = %+v", p)
	}
}
