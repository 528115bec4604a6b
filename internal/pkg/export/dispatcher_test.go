package export

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endorses/pcapview/internal/pkg/filtering"
	"github.com/endorses/pcapview/internal/pkg/logger"
)

// recorder captures navigation and notifications in the order they happen
type recorder struct {
	mu     sync.Mutex
	events []string
	urls   []string
	infos  []string
	errors []string
}

func (r *recorder) Navigate(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "navigate")
	r.urls = append(r.urls, url)
}

func (r *recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "notify")
	r.infos = append(r.infos, msg)
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "error")
	r.errors = append(r.errors, msg)
}

func newTestDispatcher(t *testing.T, kind Kind, targetID, baseURL string) (*Dispatcher, *recorder) {
	t.Helper()
	rec := &recorder{}
	d, err := NewDispatcher(Config{
		Kind:      kind,
		TargetID:  targetID,
		Poster:    newTestClient(t, baseURL),
		Navigator: rec,
		Notifier:  rec,
	})
	require.NoError(t, err)
	return d, rec
}

func TestNewDispatcher_Validation(t *testing.T) {
	client := newTestClient(t, "http://localhost:5000")

	_, err := NewDispatcher(Config{Kind: "xml", TargetID: "1", Poster: client})
	assert.Error(t, err)

	_, err = NewDispatcher(Config{Kind: KindCSV, Poster: client})
	assert.Error(t, err)

	_, err = NewDispatcher(Config{Kind: KindCSV, TargetID: "1"})
	assert.Error(t, err)

	d, err := NewDispatcher(Config{Kind: KindCSV, TargetID: "1", Poster: client})
	require.NoError(t, err)
	assert.True(t, d.Control().Enabled())
	assert.Equal(t, "Filtrowany CSV", d.Control().Label())
}

func TestDispatcher_CSVSuccess(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{"success": true, "csv_url": "/dl/42.csv", "total_packets": 37}`)
	}))
	defer srv.Close()

	d, rec := newTestDispatcher(t, KindCSV, "42", srv.URL)
	out := d.Dispatch(context.Background(), filtering.Criteria{Protocol: "UDP"})

	require.NoError(t, out.Err)
	assert.Equal(t, "/export_filtered_csv/42", gotPath)
	assert.Equal(t, "/dl/42.csv", out.URL)
	require.NotNil(t, out.TotalPackets)
	assert.Equal(t, 37, *out.TotalPackets)

	assert.Equal(t, []string{"Wyeksportowano 37 pakietów do pliku CSV."}, rec.infos)
	assert.Equal(t, []string{"/dl/42.csv"}, rec.urls)
	assert.Equal(t, []string{"notify", "navigate"}, rec.events)
	assert.Empty(t, rec.errors)

	assert.True(t, d.Control().Enabled())
	assert.Equal(t, "Filtrowany CSV", d.Control().Label())
}

func TestDispatcher_CSVSuccessWithoutCount(t *testing.T) {
	srv := newMockServer(t, http.StatusOK, `{"success": true, "csv_url": "/dl/1.csv"}`)
	d, rec := newTestDispatcher(t, KindCSV, "1", srv.URL)

	out := d.Dispatch(context.Background(), filtering.Criteria{})
	require.NoError(t, out.Err)
	assert.Empty(t, rec.infos)
	assert.Equal(t, []string{"/dl/1.csv"}, rec.urls)
}

func TestDispatcher_ReportSuccess(t *testing.T) {
	srv := newMockServer(t, http.StatusOK, `{"success": true, "report_url": "/reports/5.pdf"}`)
	d, rec := newTestDispatcher(t, KindReport, "5", srv.URL)

	out := d.Dispatch(context.Background(), filtering.Criteria{})
	require.NoError(t, out.Err)
	assert.Equal(t, []string{"navigate"}, rec.events)
	assert.Equal(t, []string{"/reports/5.pdf"}, rec.urls)
	assert.Equal(t, "Raport z filtrów", d.Control().Label())
}

func TestDispatcher_ReportApplicationFailure(t *testing.T) {
	srv := newMockServer(t, http.StatusOK, `{"success": false, "error": "no packets matched"}`)
	d, rec := newTestDispatcher(t, KindReport, "9", srv.URL)

	out := d.Dispatch(context.Background(), filtering.Criteria{SrcIP: "10.0.0.99"})

	require.Error(t, out.Err)
	assert.True(t, IsApplication(out.Err))
	assert.Equal(t, []string{"no packets matched"}, rec.errors)
	assert.Empty(t, rec.urls)
	assert.True(t, d.Control().Enabled())
	assert.Equal(t, "Raport z filtrów", d.Control().Label())
}

func TestDispatcher_ApplicationFailureWithoutMessage(t *testing.T) {
	srv := newMockServer(t, http.StatusOK, `{"success": false}`)
	d, rec := newTestDispatcher(t, KindCSV, "9", srv.URL)

	out := d.Dispatch(context.Background(), filtering.Criteria{})
	require.Error(t, out.Err)
	assert.Equal(t, []string{"Błąd eksportu CSV."}, rec.errors)
}

func TestDispatcher_TransportFailure(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	srv := newMockServer(t, http.StatusInternalServerError, `{"success": false, "error": "stack trace"}`)
	d, rec := newTestDispatcher(t, KindReport, "3", srv.URL)

	out := d.Dispatch(context.Background(), filtering.Criteria{})

	require.Error(t, out.Err)
	assert.True(t, IsTransport(out.Err))
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, []string{"Wystąpił błąd podczas generowania raportu. Szczegóły w logach."}, rec.errors)
	assert.Empty(t, rec.urls)
	assert.True(t, d.Control().Enabled())
	assert.Equal(t, "Raport z filtrów", d.Control().Label())

	logged := buf.String()
	assert.Contains(t, logged, "Filtered export failed")
	assert.Contains(t, logged, out.RequestID)
	assert.NotContains(t, logged, "stack trace")
}

func TestDispatcher_MalformedResponse(t *testing.T) {
	srv := newMockServer(t, http.StatusOK, `{"success": true, "total_packets": 3}`)
	d, rec := newTestDispatcher(t, KindCSV, "3", srv.URL)

	var out Outcome
	assert.NotPanics(t, func() {
		out = d.Dispatch(context.Background(), filtering.Criteria{})
	})

	assert.True(t, IsMalformed(out.Err))
	assert.Empty(t, rec.urls)
	assert.Empty(t, rec.infos)
	assert.Len(t, rec.errors, 1)
	assert.True(t, d.Control().Enabled())
}

func TestDispatcher_ControlDisabledWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		<-release
		_, _ = io.WriteString(w, `{"success": true, "report_url": "/reports/1.pdf"}`)
	}))
	defer srv.Close()

	d, rec := newTestDispatcher(t, KindReport, "1", srv.URL)

	done, ok := d.Trigger(context.Background(), filtering.Criteria{})
	require.True(t, ok)

	// Disabled as soon as Trigger returns, before any response
	assert.False(t, d.Control().Enabled())
	assert.Equal(t, "Generowanie raportu...", d.Control().Label())

	// Clicks on a disabled control send nothing
	again, ok := d.Trigger(context.Background(), filtering.Criteria{})
	assert.False(t, ok)
	assert.Nil(t, again)
	busy := d.Dispatch(context.Background(), filtering.Criteria{})
	assert.ErrorIs(t, busy.Err, ErrBusy)

	close(release)

	select {
	case out := <-done:
		require.NoError(t, out.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("export did not complete")
	}

	assert.True(t, d.Control().Enabled())
	assert.Equal(t, "Raport z filtrów", d.Control().Label())
	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, []string{"/reports/1.pdf"}, rec.urls)
}

func TestDispatcher_EnabledAfterFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d, _ := newTestDispatcher(t, KindCSV, "1", srv.URL)

	done, ok := d.Trigger(context.Background(), filtering.Criteria{})
	require.True(t, ok)
	assert.False(t, d.Control().Enabled())
	assert.Equal(t, "Eksportowanie CSV...", d.Control().Label())

	close(release)
	out := <-done

	assert.True(t, IsTransport(out.Err))
	assert.True(t, d.Control().Enabled())
	assert.Equal(t, "Filtrowany CSV", d.Control().Label())
}

func TestDispatcher_CriteriaSnapshot(t *testing.T) {
	var (
		mu   sync.Mutex
		body string
	)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		body = string(data)
		mu.Unlock()
		<-release
		_, _ = io.WriteString(w, `{"success": true, "report_url": "/r.pdf"}`)
	}))
	defer srv.Close()

	d, _ := newTestDispatcher(t, KindReport, "1", srv.URL)

	form := filtering.NewForm()
	form.Set(filtering.ControlProtocol, "TCP")

	done, ok := d.Trigger(context.Background(), filtering.Read(form))
	require.True(t, ok)

	// Editing the form after the click does not change the request
	form.Set(filtering.ControlProtocol, "UDP")
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, body, `"protocol":"TCP"`)
}

// stubPoster answers every request with a fixed response
type stubPoster struct {
	resp *Response
	err  error
}

func (p stubPoster) Post(context.Context, Request) (*Response, error) {
	return p.resp, p.err
}

func TestDispatcher_ChecksPosterResponse(t *testing.T) {
	tests := []struct {
		name       string
		kind       Kind
		resp       *Response
		check      func(error) bool
		wantErrors []string
	}{
		{
			name:       "nil response",
			kind:       KindReport,
			resp:       nil,
			check:      IsMalformed,
			wantErrors: []string{KindReport.MalformedMessage()},
		},
		{
			name:       "success without url",
			kind:       KindCSV,
			resp:       &Response{Success: true, TotalPackets: new(int)},
			check:      IsMalformed,
			wantErrors: []string{KindCSV.MalformedMessage()},
		},
		{
			name:       "failure without error",
			kind:       KindReport,
			resp:       &Response{Success: false, Error: "boom"},
			check:      IsApplication,
			wantErrors: []string{"boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			d, err := NewDispatcher(Config{
				Kind:      tt.kind,
				TargetID:  "7",
				Poster:    stubPoster{resp: tt.resp},
				Navigator: rec,
				Notifier:  rec,
			})
			require.NoError(t, err)

			var out Outcome
			require.NotPanics(t, func() {
				out = d.Dispatch(context.Background(), filtering.Criteria{})
			})

			require.Error(t, out.Err)
			assert.True(t, tt.check(out.Err), "unexpected error type: %v", out.Err)
			assert.Empty(t, out.URL)
			assert.Empty(t, rec.urls)
			assert.Empty(t, rec.infos)
			assert.Equal(t, tt.wantErrors, rec.errors)
			assert.True(t, d.Control().Enabled())
		})
	}
}
