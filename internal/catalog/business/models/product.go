package models

// CreatedProduct ответ API после создания товара.
type CreatedProduct struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Store       string   `json:"store"`
	Images      []string `json:"images"`
}
