package backend

type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type CreateCustomerRequest struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type UpdateCustomerRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type Merchant struct {
	MerchantID   string `json:"merchant_id"`
	MerchantName string `json:"merchant_name"`
}

type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// Order as returned by the platform. UserID is the owning merchant's id.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Status     string      `json:"status"`
	TotalPrice float64     `json:"total_price"`
	OrderDate  string      `json:"order_date"`
	OrderItems []OrderItem `json:"order_items,omitempty"`
	Customer   *Customer   `json:"customer,omitempty"`
}

type OrderItem struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}

type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID int64       `json:"customer_id"`
	MerchantID string      `json:"merchant_id"`
	Items      []OrderLine `json:"items"`
}
