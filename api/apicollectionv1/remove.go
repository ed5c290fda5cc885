package apicollectionv1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"
)

func remove(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	options, err := readFindOptions(r)
	if err != nil {
		return err
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	removed, err := s.Remove(collectionName, options)
	if err != nil && len(removed) == 0 {
		return err
	}

	w.WriteHeader(http.StatusOK)
	writeDocuments(w, removed)
	if err != nil {
		w.Write([]byte(`{"error":` + quote(err.Error()) + "}\n"))
	}

	return nil
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
