package trias_client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fortytw2/leaktest"
	"github.com/lokanidao9991/SmartBusBoard/dlog"
)

const (
	triasAPIKey  = "abc123"
	triasRequest = `<?xml version="1.0" encoding="UTF-8"?><Trias version="1.1" xmlns="http://www.vdv.de/trias"></Trias>`
	triasReply   = `<?xml version="1.0" encoding="UTF-8"?><trias:Trias xmlns:trias="http://www.vdv.de/trias" version="1.1"></trias:Trias>`
)

func newTestClient(stub *httptest.Server, url string) *TriasClient {
	return &TriasClient{
		Client: stub.Client(),
		Logger: dlog.NewLogger([]dlog.LoggerOption{
			dlog.LoggerSetOutput(io.Discard),
		}...),
		TriasURL: url,
	}
}

func TestTriasClient_Request(t *testing.T) {
	createTriasStub := func() *httptest.Server {
		t.Helper()

		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("%s\n", err.Error())
			}

			switch true {
			case r.Method != http.MethodPost:
				w.WriteHeader(http.StatusMethodNotAllowed)
			case r.Header.Get("Authorization") == "":
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, "Missing API key")
			case r.Header.Get("Authorization") != triasAPIKey:
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprint(w, "Invalid API key")
			case r.Header.Get("Content-Type") != "text/XML":
				w.WriteHeader(http.StatusUnsupportedMediaType)
			case string(body) != triasRequest:
				w.WriteHeader(http.StatusBadRequest)
			default:
				w.Header().Set("Content-Type", "text/xml")
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, triasReply)
			}
		}))
	}

	t.Run("happy path", func(t *testing.T) {
		defer leaktest.Check(t)()
		stub := createTriasStub()
		defer stub.Close()

		body, statusCode, err := newTestClient(stub, stub.URL).Request(context.Background(), triasAPIKey, triasRequest)
		if err != nil {
			t.Fatalf("%s\n", err.Error())
		}

		if statusCode != http.StatusOK {
			t.Errorf("Want HTTP status code: %d; got: %d\n", http.StatusOK, statusCode)
		}

		if string(body) != triasReply {
			t.Errorf("got body %q, want %q", body, triasReply)
		}
	})

	t.Run("no API key", func(t *testing.T) {
		defer leaktest.Check(t)()
		stub := createTriasStub()
		defer stub.Close()

		body, statusCode, err := newTestClient(stub, stub.URL).Request(context.Background(), "", triasRequest)
		if err == nil {
			t.Error("Expected an error; no error returned")
		}

		if statusCode != http.StatusUnauthorized {
			t.Errorf("Want HTTP status code: %d; got: %d\n", http.StatusUnauthorized, statusCode)
		}

		if body != nil {
			t.Error("a failed request must not return a body")
		}
	})

	t.Run("invalid API key", func(t *testing.T) {
		defer leaktest.Check(t)()
		stub := createTriasStub()
		defer stub.Close()

		_, statusCode, err := newTestClient(stub, stub.URL).Request(context.Background(), "invalid", triasRequest)
		if err == nil {
			t.Fatal("Expected an error; no error returned")
		}

		if statusCode != http.StatusForbidden {
			t.Errorf("Want HTTP status code: %d; got: %d\n", http.StatusForbidden, statusCode)
		}

		if !strings.Contains(err.Error(), "Invalid API key") {
			t.Errorf("error should carry the response text, got `%s`", err)
		}
	})

	t.Run("error response from TRIAS", func(t *testing.T) {
		defer leaktest.Check(t)()
		stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer stub.Close()

		_, statusCode, err := newTestClient(stub, stub.URL).Request(context.Background(), triasAPIKey, triasRequest)
		if err == nil {
			t.Error("Expected an error; no error returned")
		}

		if statusCode != http.StatusBadGateway {
			t.Errorf("Want HTTP status code: %d; got: %d\n", http.StatusBadGateway, statusCode)
		}
	})

	t.Run("no response from TRIAS", func(t *testing.T) {
		stub := createTriasStub()
		url := stub.URL
		stub.Close()

		_, statusCode, err := newTestClient(stub, url).Request(context.Background(), triasAPIKey, triasRequest)
		if err == nil {
			t.Error("Expected an error; no error returned")
		}

		if statusCode != http.StatusGatewayTimeout {
			t.Errorf("Want HTTP status code: %d; got: %d\n", http.StatusGatewayTimeout, statusCode)
		}
	})
}

func TestSnippet(t *testing.T) {
	t.Run("keeps a short body as is", func(t *testing.T) {
		if got := snippet([]byte("  <html>Bad Gateway</html>\n")); got != "<html>Bad Gateway</html>" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("never splits a multi-byte character", func(t *testing.T) {
		body := strings.Repeat("a", snippetLength-1) + strings.Repeat("ü", 10)

		got := snippet([]byte(body))

		if !utf8.ValidString(got) {
			t.Errorf("got invalid UTF-8: %q", got)
		}

		want := strings.Repeat("a", snippetLength-1) + "ü..."
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}
