package model

// AutoMigrate対象（FKの都合で親から順に並べる）
func All() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&Address{},
		&Product{},
		&ChatSession{},
		&ChatLog{},
		&Order{},
		&OrderItem{},
		&OutboxEvent{},
	}
}
