package apicollectionv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"
)

// insert stores every JSON object in the body (one or many, concatenated)
// and echoes the stored documents, ids included.
func insert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	jsonReader := json.NewDecoder(r.Body)
	jsonWriter := json.NewEncoder(w)

	for i := 0; true; i++ {
		item := map[string]any{}
		err := jsonReader.Decode(&item)
		if err == io.EOF {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			if i > 0 {
				// headers are gone, report the failure inline
				jsonWriter.Encode(map[string]any{"error": err.Error()})
				return nil
			}
			return err
		}

		stored, err := s.Insert(collectionName, item)
		if err != nil {
			if i > 0 {
				jsonWriter.Encode(map[string]any{"error": err.Error()})
				return nil
			}
			return err
		}

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}
		jsonWriter.Encode(stored)
	}

	return nil
}
