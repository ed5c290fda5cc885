package apicollectionv1

import (
	"context"

	"github.com/fulldump/filestore/service"
)

func listCollections(ctx context.Context) ([]*service.Collection, error) {
	return GetServicer(ctx).ListCollections()
}
