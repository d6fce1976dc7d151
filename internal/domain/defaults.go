package domain

// DefaultCatalog is the built-in service catalog adopted when neither the
// remote store nor the local cache can provide services.
func DefaultCatalog() []BarberService {
	return []BarberService{
		{
			ID:          "1",
			Name:        "Corte Masculino",
			Description: "Corte clássico ou moderno com acabamento na navalha.",
			Price:       35,
		},
		{
			ID:          "2",
			Name:        "Barba",
			Description: "Modelagem de barba com toalha quente e produtos premium.",
			Price:       25,
		},
		{
			ID:          "3",
			Name:        "Corte + Barba",
			Description: "O combo completo para renovar seu visual.",
			Price:       55,
		},
		{
			ID:          "4",
			Name:        "Sobrancelha",
			Description: "Limpeza e design de sobrancelha masculina.",
			Price:       10,
		},
	}
}

// DefaultShopInfo is the shop metadata used until an admin saves real data.
func DefaultShopInfo() ShopInfo {
	return ShopInfo{
		ID:           ShopInfoID,
		Name:         "Barbearia Prime",
		Address:      "Av. Principal",
		Neighborhood: "Centro",
		City:         "Cidade Exemplo",
		Number:       "1234",
		OpeningHours: "Seg - Sáb: 09h às 20h",
		Whatsapp:     "5577988618862",
	}
}
