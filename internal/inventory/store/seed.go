package store

// SeedProducts returns the catalogue the service starts with.
func SeedProducts() []Product {
	return []Product{
		{ID: 0, Name: "calça", Quantity: 12, Price: 89.94},
		{ID: 1, Name: "camisa", Quantity: 54, Price: 49.99},
		{ID: 2, Name: "saia", Quantity: 33, Price: 72.14},
		{ID: 3, Name: "sapato", Quantity: 12, Price: 99.11},
		{ID: 4, Name: "vestido", Quantity: 47, Price: 78.32},
	}
}
