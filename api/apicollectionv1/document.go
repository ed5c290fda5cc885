package apicollectionv1

import (
	"context"
	"net/http"
	"strings"

	"github.com/fulldump/box"

	"github.com/fulldump/filestore/service"
)

func documentAddress(ctx context.Context) (collection, id string) {
	collection = box.GetUrlParameter(ctx, "collectionName")
	id = strings.TrimSpace(box.GetUrlParameter(ctx, "documentId"))
	return
}

func getDocument(ctx context.Context) (service.JSON, error) {
	collection, id := documentAddress(ctx)
	return GetServicer(ctx).GetDocument(collection, id)
}

func putDocument(ctx context.Context, document service.JSON) (service.JSON, error) {
	collection, id := documentAddress(ctx)
	return GetServicer(ctx).PutDocument(collection, id, document)
}

func patchDocument(ctx context.Context, patch service.JSON) (service.JSON, error) {
	collection, id := documentAddress(ctx)
	return GetServicer(ctx).PatchDocument(collection, id, patch)
}

func deleteDocument(ctx context.Context, w http.ResponseWriter) error {
	collection, id := documentAddress(ctx)

	err := GetServicer(ctx).DeleteDocument(collection, id)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
