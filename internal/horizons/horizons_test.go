package horizons

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage(name, mass string, x float64) string {
	return fmt.Sprintf(`*******************************************************************************
 Revised: July 31, 2013             %[1]s                          499 / 4
 Target body name: %[1]s (499)                    {source: mar097}
 Center body name: Solar System Barycenter (0)     {source: DE431mx}
*******************************************************************************
 %[2]s
 Mean radius (km)  = 3389.9(2+-4)    Density (g cm^-3) =  3.933(5+-4)
*******************************************************************************
$$SOE
2457388.500000000, A.D. 2016-Jan-01 00:00:00.0000, %.15E, 1.000000000000000E+08, -2.500000000000000E+06, -2.000000000000000E+01, 1.500000000000000E+01, 1.000000000000000E-01, 1.0E+03, 2.0E+08, 1.0E-01,
$$EOE
`, name, mass, x)
}

func TestParsePage(t *testing.T) {
	rec, err := ParsePage(samplePage("Mars", "Mass (10^23 kg ) = 6.4185", -1.5e8))
	require.NoError(t, err)

	assert.Equal(t, "Mars", rec.Name)
	assert.InDelta(t, 6.4185e23, rec.Mass, 1e10)
	assert.InDelta(t, -1.5e11, rec.Position.X, 1e-3)
	assert.InDelta(t, 1e11, rec.Position.Y, 1e-3)
	assert.InDelta(t, -2.5e9, rec.Position.Z, 1e-3)
	assert.InDelta(t, -2e4, rec.Velocity.X, 1e-9)
	assert.InDelta(t, 1.5e4, rec.Velocity.Y, 1e-9)
	assert.InDelta(t, 100, rec.Velocity.Z, 1e-9)
}

func TestParsePageApproximateMass(t *testing.T) {
	rec, err := ParsePage(samplePage("Sun", "Mass (10^30 kg ) ~ 1.988544", 0))
	require.NoError(t, err)
	assert.InDelta(t, 1.988544e30, rec.Mass, 1e20)
}

func TestParsePageIncomplete(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"no match", "No matches found."},
		{"no mass", samplePage("Ceres", "GM (km^3/s^2) = 62.6284", 1)},
		{"no vectors", strings.Split(samplePage("Mars", "Mass (10^23 kg ) = 6.4185", 1), "$$SOE")[0]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePage(tt.page)
			assert.True(t, errors.Is(err, ErrIncomplete), "got %v", err)
		})
	}
}

func TestURL(t *testing.T) {
	c := NewClient(WithBaseURL("http://example.test/cgi"))
	u := c.URL(399)

	assert.True(t, strings.HasPrefix(u, "http://example.test/cgi?"))
	assert.Contains(t, u, "COMMAND=%27399%27")
	assert.Contains(t, u, "CENTER=%27500%400%27")
	assert.Contains(t, u, "TABLE_TYPE=%27VECTOR%27")
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []int{3, 4, 5}, IDs(3, 5))
	assert.Nil(t, IDs(5, 3))
}

func fakeHorizons(t *testing.T, inflight, peak *int32) *httptest.Server {
	t.Helper()
	pages := map[string]string{
		"'10'":  samplePage("Sun", "Mass (10^30 kg ) ~ 1.988544", 0),
		"'399'": samplePage("Earth", "Mass (10^24 kg ) = 5.97219", -2.6e7),
		"'499'": samplePage("Mars", "Mass (10^23 kg ) = 6.4185", 1.9e8),
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inflight != nil {
			n := atomic.AddInt32(inflight, 1)
			defer atomic.AddInt32(inflight, -1)
			for {
				p := atomic.LoadInt32(peak)
				if n <= p || atomic.CompareAndSwapInt32(peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
		}

		cmd := r.URL.Query().Get("COMMAND")
		if cmd == "'666'" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		page, ok := pages[cmd]
		if !ok {
			page = "No matches found."
		}
		fmt.Fprint(w, page)
	}))
}

func TestFetchOrdersAndSkips(t *testing.T) {
	srv := fakeHorizons(t, nil, nil)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithConcurrency(3))
	recs, err := c.Fetch(context.Background(), []int{499, 1, 10, 399, 10, 2})
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, "Sun", recs[0].Name)
	assert.Equal(t, "Earth", recs[1].Name)
	assert.Equal(t, "Mars", recs[2].Name)
}

func TestFetchBoundsConcurrency(t *testing.T) {
	var inflight, peak int32
	srv := fakeHorizons(t, &inflight, &peak)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithConcurrency(2))
	_, err := c.Fetch(context.Background(), IDs(1, 12))
	require.NoError(t, err)

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&peak), int32(1))
}

func TestFetchServerError(t *testing.T) {
	srv := fakeHorizons(t, nil, nil)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), []int{10, 666})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "body 666")
	assert.Contains(t, err.Error(), "500")
}

func TestFetchCanceled(t *testing.T) {
	srv := fakeHorizons(t, nil, nil)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Fetch(ctx, []int{10, 399})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
