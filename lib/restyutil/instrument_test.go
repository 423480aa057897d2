package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.messages[id] = contents
}

func TestInstrumentClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html")
		w.Write([]byte("<html>menu</html>"))
	}))
	defer server.Close()

	out := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, nil, out)

	res, err := client.R().Get(server.URL + "/?locationNum=19")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, http.StatusOK, res.StatusCode())
	require.Equal(t, "<html>menu</html>", res.String())
}

func TestFormatHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Add("b", "2")
	headers.Add("a", "1")
	headers.Add("a", "3")
	require.Equal(t, "A: 1\nA: 3\nB: 2", formatHeaders(headers))
	require.Equal(t, "", formatHeaders(http.Header{}))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resty")
	out, err := NewFilesystemOutput(dir, 2)
	if err != nil {
		t.Fatal(err)
	}
	out.Write("1", "---- REQUEST ----")

	contents, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, strings.HasPrefix(string(contents), "---- REQUEST"))

	out.Write("2", "second")
	out.Write("3", "third")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"2.txt", "3.txt"}, names)
}
