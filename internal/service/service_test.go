package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	"university-results/internal/components/telemetry"
	"university-results/internal/scrapers/beup"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
)

func studentPage(regNo, name string) string {
	return fmt.Sprintf(`<html><body>
<span id="ContentPlaceHolder1_DataList1_RegistrationNoLabel_0">%s</span>
<span id="ContentPlaceHolder1_DataList1_StudentNameLabel_0">%s</span>
<span id="ContentPlaceHolder1_DataList5_GROSSTHEORYTOTALLabel_0">8.10</span>
<table id="ContentPlaceHolder1_GridView1">
<tr><th>Subject Code</th><th>Subject Name</th><th>ESE</th><th>IA</th><th>Total</th><th>Grade</th><th>Credit</th></tr>
<tr><td>100101</td><td>Mathematics-I</td><td>60</td><td>25</td><td>85</td><td>A+</td><td>4</td></tr>
</table>
</body></html>`, regNo, name)
}

// fakeFetcher answers from a map keyed by registration number, anything
// missing is reported as not found.
type fakeFetcher struct {
	mutex   sync.Mutex
	results map[string]beup.FetchResult
	calls   []string
	sems    []string
}

func (f *fakeFetcher) FetchStudent(_ context.Context, sem, regNo string) beup.FetchResult {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls = append(f.calls, regNo)
	f.sems = append(f.sems, sem)
	res, ok := f.results[regNo]
	if !ok {
		return beup.NotFound()
	}
	return res
}

func decodeEntries(t testing.TB, body []byte) []map[string]any {
	var entries []map[string]any
	err := json.Unmarshal(body, &entries)
	if err != nil {
		t.Fatal(err)
	}
	return entries
}

func TestHandlerMissingRegNo(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewService(fetcher, Options{}, &telemetry.Recorder{})

	for _, target := range []string{"/api", "/api?sem=II", "/api?reg_no=", "/"} {
		rec := httptest.NewRecorder()
		svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		require.JSONEq(t, `{"error": "Missing 'reg_no' query parameter"}`, rec.Body.String(), target)
	}
	require.Empty(t, fetcher.calls)
}

func TestHandlerNoRecords(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewService(fetcher, Options{}, &telemetry.Recorder{})

	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api?reg_no=22101110001", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
	require.Len(t, fetcher.calls, 5)
}

func TestHandlerAllFailed(t *testing.T) {
	results := map[string]beup.FetchResult{}
	for i := 1; i <= 5; i++ {
		results[fmt.Sprintf("2210111000%d", i)] = beup.Failed(fmt.Errorf("unexpected status: 503 Service Unavailable"))
	}
	fetcher := &fakeFetcher{results: results}
	svc := NewService(fetcher, Options{}, &telemetry.Recorder{})

	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api?reg_no=22101110001", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
	require.Len(t, fetcher.calls, 5)
}

func TestHandlerPartialBatch(t *testing.T) {
	fetcher := &fakeFetcher{results: map[string]beup.FetchResult{
		"22101110002": beup.Found(studentPage("22101110002", "PRIYA KUMARI")),
		"22101110003": beup.Failed(fmt.Errorf("fetch: connection reset by peer")),
		"22101110005": beup.Found(studentPage("22101110005", "RAHUL RAJ")),
	}}
	svc := NewService(fetcher, Options{}, &telemetry.Recorder{})

	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api?reg_no=22101110001&sem=III", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("content-type"))

	entries := decodeEntries(t, rec.Body.Bytes())
	require.Len(t, entries, 4)

	require.Equal(t, "22101110002", entries[0]["registration_no"])
	require.Equal(t, "PRIYA KUMARI", entries[0]["student_name"])
	require.Equal(t, map[string]any{"separator": separatorText}, entries[1])
	require.Equal(t, "22101110005", entries[2]["registration_no"])
	require.Equal(t, "RAHUL RAJ", entries[2]["student_name"])
	require.Equal(t, map[string]any{"separator": separatorText}, entries[3])

	require.Equal(t, []string{
		"22101110001",
		"22101110002",
		"22101110003",
		"22101110004",
		"22101110005",
	}, fetcher.calls)
	for _, sem := range fetcher.sems {
		require.Equal(t, "III", sem)
	}
}

func TestLookupDefaults(t *testing.T) {
	fetcher := &fakeFetcher{}
	tel := &telemetry.Recorder{}
	svc := NewService(fetcher, Options{}, tel)

	records, err := svc.Lookup(context.Background(), "22101110001", "")
	require.NoError(t, err)
	require.Empty(t, records)
	require.NotNil(t, records)
	require.Len(t, fetcher.calls, DefaultBatchSize)
	for _, sem := range fetcher.sems {
		require.Equal(t, DefaultSemester, sem)
	}

	counts := tel.Filter(telemetry.KindCount)
	require.Len(t, counts, 1)
	require.Equal(t, int64(0), counts[0].Count)
}

func TestLookupBatchSizeOption(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewService(fetcher, Options{BatchSize: 2, DefaultSemester: "V"}, &telemetry.Recorder{})

	_, err := svc.Lookup(context.Background(), "22101110010", "")
	require.NoError(t, err)
	require.Equal(t, []string{"22101110010", "22101110011"}, fetcher.calls)
	require.Equal(t, []string{"V", "V"}, fetcher.sems)
}

func TestLookupMissingRegNo(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewService(fetcher, Options{}, &telemetry.Recorder{})

	_, err := svc.Lookup(context.Background(), "", "I")
	require.ErrorIs(t, err, ErrMissingRegNo)
	require.Empty(t, fetcher.calls)
}

func TestLookupInvalidRegNo(t *testing.T) {
	fetcher := &fakeFetcher{}
	tel := &telemetry.Recorder{}
	svc := NewService(fetcher, Options{}, tel)

	records, err := svc.Lookup(context.Background(), "22101110ABC", "I")
	require.NoError(t, err)
	require.Empty(t, records)
	require.Empty(t, fetcher.calls)
	require.Len(t, tel.Filter(telemetry.KindWarning), 1)
}

func TestEntries(t *testing.T) {
	require.Equal(t, []any{}, Entries(nil))

	records := []beup.StudentResult{
		{RegistrationNo: "1"},
		{RegistrationNo: "2"},
	}
	entries := Entries(records)
	require.Len(t, entries, 4)
	require.Equal(t, records[0], entries[0])
	require.Equal(t, Separator{Separator: separatorText}, entries[1])
	require.Equal(t, records[1], entries[2])
	require.Equal(t, Separator{Separator: separatorText}, entries[3])
}

// zeroTimer skips every backoff wait.
type zeroTimer struct {
	c chan time.Time
}

func (z zeroTimer) Start(time.Duration) { z.c <- time.Now() }
func (z zeroTimer) Stop()               {}
func (z zeroTimer) C() <-chan time.Time { return z.c }

func TestLookupAgainstPortal(t *testing.T) {
	var (
		mutex sync.Mutex
		hits  = map[string]int{}
		sems  = map[string]bool{}
	)
	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		regNo := r.URL.Query().Get("RegNo")
		mutex.Lock()
		hits[regNo]++
		sems[r.URL.Query().Get("Sem")] = true
		attempt := hits[regNo]
		mutex.Unlock()

		switch regNo {
		case "22101110041":
			w.Write([]byte(studentPage(regNo, "SANJANA SINGH")))
		case "22101110043":
			// recovers on the last attempt
			if attempt < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(studentPage(regNo, "VIKASH YADAV")))
		case "22101110044":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.Write([]byte(`<span id="lblMsg">No Record Found !!!</span>`))
		}
	}))
	defer portal.Close()

	client, err := beup.NewClient(beup.ClientOptions{
		BaseUrl: portal.URL + "/ResultsBTech1stSem2023_B2023Pub.aspx",
		Timer: func() backoff.Timer {
			return zeroTimer{c: make(chan time.Time, 1)}
		},
	}, &telemetry.Recorder{})
	require.NoError(t, err)

	svc := NewService(client, Options{}, &telemetry.Recorder{})
	server := httptest.NewServer(svc.Handler())
	defer server.Close()

	res, err := http.Get(server.URL + "/api?reg_no=22101110041&sem=II")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var entries []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&entries))
	require.Len(t, entries, 4)
	require.Equal(t, "SANJANA SINGH", entries[0]["student_name"])
	require.Equal(t, "8.10", entries[0]["sgpa"])
	require.Equal(t, "VIKASH YADAV", entries[2]["student_name"])

	theory, ok := entries[0]["theory_subjects"].([]any)
	require.True(t, ok)
	require.Len(t, theory, 1)

	mutex.Lock()
	defer mutex.Unlock()
	require.Equal(t, map[string]int{
		"22101110041": 1,
		"22101110042": 1,
		"22101110043": 3,
		"22101110044": 3,
		"22101110045": 1,
	}, hits)
	require.Equal(t, map[string]bool{"II": true}, sems)
}
