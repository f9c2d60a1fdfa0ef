package cli

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// garbageDaemon answers health checks but returns non-JSON everywhere else.
func garbageDaemon(t *testing.T) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.Write([]byte(`{"status":"ok"}`))
			return
		}
		w.Write([]byte("not json"))
	}))
	t.Cleanup(ts.Close)
	t.Setenv("HALFLIFE_URL", ts.URL)
}

func TestAddSurfacesMalformedResponse(t *testing.T) {
	garbageDaemon(t)

	err := runAdd(addCmd, []string{"5", "mg"})
	if err == nil {
		t.Fatal("expected decode error for malformed daemon response")
	}
	if !strings.Contains(err.Error(), "decode response") {
		t.Errorf("err = %v, want decode response error", err)
	}
}

func TestClearSurfacesMalformedResponse(t *testing.T) {
	garbageDaemon(t)

	err := runClear(clearCmd, nil)
	if err == nil {
		t.Fatal("expected decode error for malformed daemon response")
	}
	if !strings.Contains(err.Error(), "decode response") {
		t.Errorf("err = %v, want decode response error", err)
	}
}
