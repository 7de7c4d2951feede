package sale

import "context"

type SaleRepository interface {
	// GetByID loads the sale with its participants and industry detail.
	GetByID(ctx context.Context, id int64) (Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]Sale, int64, error)

	// ListForUsers restricts the listing to sales any of the given users
	// participate in. Used for authority-scoped reads.
	ListForUsers(ctx context.Context, userIDs []int64, filter SaleFilter) ([]Sale, int64, error)

	Cancel(ctx context.Context, id int64, reason string, actorID int64) error
}

type SaleService interface {
	GetSale(ctx context.Context, id int64) (SaleResponse, error)
	ListSales(ctx context.Context, filter SaleFilter) (ListSaleResponse, error)
	ListSalesForUsers(ctx context.Context, userIDs []int64, filter SaleFilter) (ListSaleResponse, error)
	CancelSale(ctx context.Context, req CancelSaleRequest, actorID int64) error
}
