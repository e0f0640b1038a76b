// Package test has helpers shared by the HTTP handler tests.
package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func SendHTTP(api http.Handler, method, path, body string) *http.Response {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	api.ServeHTTP(resp, req)

	return resp.Result()
}

// this function serves to drop fields that shouldn't be tested from the unmarshalled json objects
func dropFields(obj interface{}, fields ...string) {
	switch v := obj.(type) {
	case map[string]interface{}:
		for _, field := range fields {
			delete(v, field)
		}
		for _, val := range v {
			dropFields(val, fields...)
		}
	case []interface{}:
		for _, element := range v {
			dropFields(element, fields...)
		}
	default:
		return
	}
}

type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
	Helper()
}

func TestRoute(t TestingT, api http.Handler, method, path, body string, expectedStatus int, expectedJSON string, ignoreFields ...string) {
	t.Helper()
	_ = TestRouteWithReply(t, api, method, path, body, expectedStatus, expectedJSON, ignoreFields...)
}

// TestRouteWithReply tests the given API endpoint and if the test passes, it returns the raw JSON reply.
// An expectedJSON of "*" only checks that the reply is valid JSON.
func TestRouteWithReply(t TestingT, api http.Handler, method, path, body string, expectedStatus int, expectedJSON string, ignoreFields ...string) (replyJSON []byte) {
	t.Helper()

	resp := SendHTTP(api, method, path, body)
	defer resp.Body.Close()

	var err error
	replyJSON, err = io.ReadAll(resp.Body)
	require.NoErrorf(t, err, "%s: could not read response body", path)

	assert.Equalf(t, expectedStatus, resp.StatusCode, "SendHTTP failed for path %s: %v", path, string(replyJSON))

	if expectedJSON == "" {
		require.Lenf(t, replyJSON, 0, "%s: expected no response body, but got:\n%s", path, replyJSON)
		return
	}

	var reply, expected interface{}
	err = json.Unmarshal(replyJSON, &reply)
	require.NoErrorf(t, err, "%s: json.Unmarshal failed for\n%s", path, string(replyJSON))

	if expectedJSON == "*" {
		return
	}

	err = json.Unmarshal([]byte(expectedJSON), &expected)
	require.NoErrorf(t, err, "%s: expected JSON is invalid", path)

	if len(ignoreFields) > 0 {
		dropFields(reply, ignoreFields...)
		dropFields(expected, ignoreFields...)
	}

	require.Equal(t, expected, reply)

	return
}

// TestNonJsonRoute checks the status of a route and returns its body.
func TestNonJsonRoute(t TestingT, api http.Handler, method, path, body string, expectedStatus int) (*http.Response, string) {
	t.Helper()

	response := SendHTTP(api, method, path, body)
	defer response.Body.Close()
	assert.Equalf(t, expectedStatus, response.StatusCode, "%s: status mismatch", path)

	responseBodyBytes, err := io.ReadAll(response.Body)
	require.NoErrorf(t, err, "%s: could not read response body", path)

	return response, string(responseBodyBytes)
}

func Ignore(what string) cmp.Option {
	return cmp.FilterPath(func(p cmp.Path) bool { return p.String() == what }, cmp.Ignore())
}
