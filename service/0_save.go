package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/fulldump/apitest"
)

// Save writes a markdown example of the request/response pair into
// $API_EXAMPLES_PATH, if set. Acceptance tests use it to build the API docs.
func Save(response *apitest.Response, title, description string) {

	examplesPath := os.Getenv("API_EXAMPLES_PATH")
	if examplesPath == "" {
		return
	}

	request := response.Request
	query := ""
	if request.URL.RawQuery != "" {
		query = "?" + request.URL.RawQuery
	}
	requestBody := formatJSON(response.BodyRequestString())

	b := &strings.Builder{}

	fmt.Fprintf(b, "# %s\n%s\n", title, cropTabs(description))

	fmt.Fprintf(b, "Curl example:\n\n```sh\ncurl")
	if request.Method != "GET" {
		fmt.Fprintf(b, " -X %s", request.Method)
	}
	fmt.Fprintf(b, " \"http://localhost:8080%s%s\"", request.URL.Path, query)
	for k, values := range request.Header {
		for _, v := range values {
			fmt.Fprintf(b, " \\\n-H \"%s: %s\"", k, v)
		}
	}
	if requestBody != "" {
		fmt.Fprintf(b, " \\\n-d '%s'", requestBody)
	}
	fmt.Fprintf(b, "\n```\n\n\n")

	fmt.Fprintf(b, "HTTP request/response example:\n\n```http\n")
	fmt.Fprintf(b, "%s %s%s %s\nHost: localhost:8080\n", request.Method, request.URL.Path, query, request.Proto)
	for k, values := range request.Header {
		for _, v := range values {
			fmt.Fprintf(b, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(b, "\n%s\n\n", requestBody)

	fmt.Fprintf(b, "%s %s\n", response.Proto, response.Status)
	keys := make([]string, 0, len(response.Header))
	for k := range response.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "Date" {
			continue
		}
		for _, v := range response.Header[k] {
			fmt.Fprintf(b, "%s: %s\n", k, v)
		}
	}
	fmt.Fprintf(b, "\n%s\n```\n\n\n", formatJSON(response.BodyString()))

	filename := strings.ReplaceAll(strings.ToLower(title), " ", "_") + ".md"
	p := path.Join(examplesPath, path.Clean(filename))
	err := os.WriteFile(p, []byte(b.String()), 0666)
	if err != nil {
		fmt.Println("ERROR: save example:", err.Error())
	}
}

func formatJSON(body string) string {

	var i interface{}
	err := json.Unmarshal([]byte(body), &i)
	if err != nil {
		return body
	}

	pretty, err := json.MarshalIndent(i, "", "    ")
	if err != nil {
		return body
	}

	return string(pretty)
}

// cropTabs removes the indentation shared by the lines of a raw string
// literal written inside a test.
func cropTabs(d string) string {

	lines := strings.Split(d, "\n")

	minTabs := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tabs := len(line) - len(strings.TrimLeft(line, "\t"))
		if minTabs < 0 || tabs < minTabs {
			minTabs = tabs
		}
	}
	if minTabs <= 0 {
		return strings.TrimSpace(d)
	}

	prefix := strings.Repeat("\t", minTabs)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
