package server

type createOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type orderItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int32 `json:"quantity" validate:"required,gt=0"`
}

type findOrdersRequest struct {
	Page   int     `json:"page" validate:"omitempty,gte=1"`
	Limit  int     `json:"limit" validate:"omitempty,gte=1"`
	Status *string `json:"status"`
}

type findOrderRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

type changeOrderStatusRequest struct {
	ID     string  `json:"id" validate:"required,uuid"`
	Status *string `json:"status"`
}
