package apicollectionv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/filestore/service"
)

func readFindOptions(r *http.Request) (*service.FindOptions, error) {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	options := &service.FindOptions{}
	if len(requestBody) == 0 {
		return options, nil
	}

	err = json.Unmarshal(requestBody, options)
	if err != nil {
		return nil, err
	}

	return options, nil
}

func writeDocuments(w http.ResponseWriter, documents []service.JSON) {
	e := json.NewEncoder(w)
	for _, document := range documents {
		e.Encode(document)
	}
}

func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	options, err := readFindOptions(r)
	if err != nil {
		return err
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	documents, err := s.Find(collectionName, options)
	if err != nil {
		return err
	}

	// an empty stream is still a successful find
	w.WriteHeader(http.StatusOK)
	writeDocuments(w, documents)

	return nil
}
