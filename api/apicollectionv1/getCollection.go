package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/filestore/service"
)

func getCollection(ctx context.Context) (*service.Collection, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	return s.GetCollection(collectionName)
}
