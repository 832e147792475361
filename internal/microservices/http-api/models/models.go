package models

// All lists every model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&Genre{},
		&Movie{},
		&MovieGenre{},
		&Rating{},
		&Review{},
		&Wishlist{},
	}
}
