package domain

// StockItem is a stock-keeping record. Stock never goes below zero; the
// ordering engine enforces that on every mutation.
type StockItem struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// SeedInventory is the stock list a fresh installation starts with.
func SeedInventory() []StockItem {
	return []StockItem{
		{ID: 1, Name: "Tea", Stock: 50},
		{ID: 2, Name: "Turkish Coffee", Stock: 30},
		{ID: 3, Name: "Nescafe", Stock: 40},
		{ID: 4, Name: "Orange Juice", Stock: 20},
		{ID: 5, Name: "Anise", Stock: 25},
	}
}
