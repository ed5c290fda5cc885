package service

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

func readDocuments(resp *apitest.Response) []interface{} {
	documents := []interface{}{}
	dec := json.NewDecoder(strings.NewReader(resp.BodyString()))
	for dec.More() {
		var document interface{}
		if err := dec.Decode(&document); err != nil {
			break
		}
		documents = append(documents, document)
	}
	return documents
}

// Acceptance exercises the whole HTTP API against an empty store.
func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("List collections - empty", func(a *biff.A) {
		resp := apiRequest("GET", "/collections").Do()
		Save(resp, "List collections - empty", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqualJson(resp.BodyJson(), []JSON{})
	})

	a.Alternative("Retrieve missing collection", func(a *biff.A) {
		resp := apiRequest("GET", "/collections/my-collection").Do()
		Save(resp, "Retrieve collection - not found", `
			Collections exist while they hold at least one document.
		`)

		biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
	})

	a.Alternative("Find in missing collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/my-collection:find").Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqual(resp.BodyString(), "")
	})

	a.Alternative("Remove in missing collection", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/my-collection:remove").
			WithBodyJson(JSON{"filter": JSON{"name": "Nobody"}}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqual(resp.BodyString(), "")
	})

	a.Alternative("Insert one", func(a *biff.A) {
		myDocument := JSON{
			"id":      "my-id",
			"name":    "Fulanez",
			"address": "Elm Street 11",
		}
		resp := apiRequest("POST", "/collections/my-collection:insert").
			WithBodyJson(myDocument).Do()
		Save(resp, "Insert one", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqualJson(resp.BodyJson(), myDocument)

		a.Alternative("Retrieve collection", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/my-collection").Do()
			Save(resp, "Retrieve collection", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"name": "my-collection", "total": 1})
		})

		a.Alternative("List collections", func(a *biff.A) {
			resp := apiRequest("GET", "/collections").Do()
			Save(resp, "List collections", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{{"name": "my-collection", "total": 1}})
		})

		a.Alternative("Get document", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/my-collection/my-id").Do()
			Save(resp, "Get document", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), myDocument)
		})

		a.Alternative("Get missing document", func(a *biff.A) {
			resp := apiRequest("GET", "/collections/my-collection/other-id").Do()
			Save(resp, "Get document - not found", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Find with filter", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:find").
				WithBodyJson(JSON{
					"filter": JSON{
						"name": JSON{"equals": "Fulanez"},
					},
				}).Do()
			Save(resp, "Find - filter", `
				Filter operators: equals, ne, gt, gte, lt, lte, in, nin, contains.
				A plain value means equals.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(readDocuments(resp), []JSON{myDocument})
		})

		a.Alternative("Find without matches", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:find").
				WithBodyJson(JSON{
					"filter": JSON{"name": "Menganez"},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyString(), "")
		})

		a.Alternative("Find with unsupported operator", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:find").
				WithBodyJson(JSON{
					"filter": JSON{
						"name": JSON{"like": "Fula%"},
					},
				}).Do()
			Save(resp, "Find - unsupported operator", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Put document", func(a *biff.A) {
			resp := apiRequest("PUT", "/collections/my-collection/my-id").
				WithBodyJson(JSON{"id": "ignored", "name": "Menganez"}).Do()
			Save(resp, "Put document", `
				Replaces the whole document. The id in the path wins.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"id": "my-id", "name": "Menganez"})
		})

		a.Alternative("Patch document", func(a *biff.A) {
			resp := apiRequest("PATCH", "/collections/my-collection/my-id").
				WithBodyJson(JSON{"address": nil, "age": 42}).Do()
			Save(resp, "Patch document", `
				JSON merge patch, null removes a field.
			`)

			expected := JSON{"id": "my-id", "name": "Fulanez", "age": 42}
			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), expected)

			resp = apiRequest("GET", "/collections/my-collection/my-id").Do()
			biff.AssertEqualJson(resp.BodyJson(), expected)
		})

		a.Alternative("Delete document", func(a *biff.A) {
			resp := apiRequest("DELETE", "/collections/my-collection/my-id").Do()
			Save(resp, "Delete document", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusNoContent)

			a.Alternative("Get deleted document", func(a *biff.A) {
				resp := apiRequest("GET", "/collections/my-collection/my-id").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Collection is gone", func(a *biff.A) {
				resp := apiRequest("GET", "/collections/my-collection").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Delete again", func(a *biff.A) {
				resp := apiRequest("DELETE", "/collections/my-collection/my-id").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNoContent)
			})
		})
	})

	a.Alternative("Insert without id", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/my-collection:insert").
			WithBodyJson(JSON{"name": "Fulanez"}).Do()
		Save(resp, "Insert - generated id", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		body := resp.BodyJsonMap()
		id, _ := body["id"].(string)
		biff.AssertTrue(id != "")
	})

	a.Alternative("Insert with invalid id", func(a *biff.A) {
		resp := apiRequest("POST", "/collections/my-collection:insert").
			WithBodyJson(JSON{"id": "../../etc/passwd"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Insert many", func(a *biff.A) {

		myDocuments := []JSON{
			{"id": "1", "name": "Alfonso"},
			{"id": "2", "name": "Gerardo"},
			{"id": "3", "name": "Alfonso"},
		}

		body := ""
		for _, myDocument := range myDocuments {
			myDocument, _ := json.Marshal(myDocument)
			body += string(myDocument) + "\n"
		}
		resp := apiRequest("POST", "/collections/my-collection:insert").
			WithBodyString(body).Do()
		Save(resp, "Insert many", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		biff.AssertEqual(len(readDocuments(resp)), 3)

		a.Alternative("Find sorted", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:find").
				WithBodyJson(JSON{"sort": "id"}).Do()
			Save(resp, "Find - sorted", `
				Without sort the order of documents is not defined.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(readDocuments(resp), myDocuments)
		})

		a.Alternative("Find sorted descending with skip and limit", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:find").
				WithBodyJson(JSON{"sort": "-id", "skip": 1, "limit": 1}).Do()
			Save(resp, "Find - skip and limit", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(readDocuments(resp), []JSON{myDocuments[1]})
		})

		a.Alternative("Remove by filter", func(a *biff.A) {
			resp := apiRequest("POST", "/collections/my-collection:remove").
				WithBodyJson(JSON{
					"filter": JSON{"name": "Alfonso"},
					"sort":   "id",
				}).Do()
			Save(resp, "Remove - filter", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(readDocuments(resp), []JSON{myDocuments[0], myDocuments[2]})

			resp = apiRequest("POST", "/collections/my-collection:find").Do()
			biff.AssertEqualJson(readDocuments(resp), []JSON{myDocuments[1]})
		})
	})
}
