package domain

const (
	CategoryBooks       = "books"
	CategoryElectronics = "electronics"
	CategoryGoods       = "goods"
)

// Seed returns the demo catalog the mock backend starts with.
func Seed() []Product {
	products := []Product{
		{ID: 1, Name: "Introduction to JavaScript", Price: 2800, Stock: 50, Category: CategoryBooks, Description: "A first programming book for beginners"},
		{ID: 2, Name: "Practical Python Guide", Price: 3200, Stock: 30, Category: CategoryBooks, Description: "Learn how Python is used in practice"},
		{ID: 3, Name: "Wireless Mouse", Price: 1980, Stock: 100, Category: CategoryElectronics, Description: "Silent mouse with Bluetooth support"},
		{ID: 4, Name: "USB-C Cable", Price: 890, Stock: 200, Category: CategoryElectronics, Description: "Fast charging, 1m"},
		{ID: 5, Name: "Notebook Set", Price: 450, Stock: 80, Category: CategoryGoods, Description: "A5 size, pack of 5"},
		{ID: 6, Name: "Ballpoint Pen (black)", Price: 120, Stock: 500, Category: CategoryGoods, Description: "Oil-based ink, 0.7mm"},
		{ID: 7, Name: "SQL Database Design", Price: 3800, Stock: 5, Category: CategoryBooks, Description: "Database design from basics to advanced topics"},
		{ID: 8, Name: "Building Web Apps", Price: 2980, Stock: 0, Category: CategoryBooks, Description: "Make web apps with HTML, CSS and JavaScript"},
		{ID: 9, Name: "Wireless Keyboard", Price: 4500, Stock: 25, Category: CategoryElectronics, Description: "Mechanical keyboard"},
		{ID: 10, Name: "Desk Light", Price: 3200, Stock: 15, Category: CategoryGoods, Description: "USB powered, dimmable"},
	}
	for i := range products {
		products[i].SyncStatus()
	}
	return products
}
