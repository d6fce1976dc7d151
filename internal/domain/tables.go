package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	// Catalog
	&BarberService{},
	&Product{},
	&ShopInfo{},
	// Customers
	&Account{},
	&Profile{},
}
